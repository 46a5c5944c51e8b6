package main

import (
	"fmt"
	"os"

	"github.com/mauv0809/courtside/internal/client"
	"github.com/spf13/cobra"
)

var (
	host  string
	token string
)

var rootCmd = &cobra.Command{
	Use:   "courtside",
	Short: "A CLI to interact with the courtside server",
	Long: `A command-line interface for proposing, accepting, playing and rating
matches on a courtside server.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("COURTSIDE_TOKEN"), "Bearer token to authenticate with (defaults to $COURTSIDE_TOKEN)")
}

func newClient() *client.Client {
	return client.New(host, token)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
