package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mauv0809/courtside/internal/client"
	"github.com/mauv0809/courtside/internal/match"
	"github.com/mauv0809/courtside/internal/matchmaking"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd, matchCmd, userCmd, leagueCmd)

	proposeCmd.Flags().String("to", "", "The opponent's user ID")
	proposeCmd.Flags().String("sport", "Tennis", "Tennis, Squash or Badminton")
	proposeCmd.Flags().String("date", "", "Start time in RFC 3339 (default: one day from now)")
	proposeCmd.Flags().String("league", "", "League the match counts towards")
	proposeCmd.Flags().Int("round", 0, "League round")
	proposeCmd.MarkFlagRequired("to")

	findCmd.Flags().String("status", "", "Only matches in this status")
	findCmd.Flags().String("sport", "", "Only matches of this sport")
	findCmd.Flags().String("league", "", "Only matches in this league")
	findCmd.Flags().Int("page-start", 0, "Offset of the first match")
	findCmd.Flags().Int("page-size", 0, "Number of matches per page")
	findCmd.Flags().Int("sort-date", 0, "1 for earliest first, -1 for latest first")
	findCmd.Flags().Bool("proposed", false, "List open proposals from other players instead")

	matchCmd.AddCommand(proposeCmd, getMatchCmd, findCmd, acceptCmd, cancelCmd, completeCmd, messageCmd, rateCmd)
	userCmd.AddCommand(meCmd, renameCmd, getUserCmd, listUsersCmd)
	leagueCmd.AddCommand(newLeagueCmd, getLeagueCmd, joinLeagueCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Health(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("OK")
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Propose, find and play matches",
}

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Propose a match to another player",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, _ := cmd.Flags().GetString("to")
		sport, _ := cmd.Flags().GetString("sport")
		date, _ := cmd.Flags().GetString("date")
		leagueID, _ := cmd.Flags().GetString("league")
		if date == "" {
			date = time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
		}
		p := matchmaking.Proposal{Date: date, To: to, Sport: sport, League: leagueID}
		if cmd.Flags().Changed("round") {
			round, _ := cmd.Flags().GetInt("round")
			p.Round = &round
		}
		doc, err := newClient().Propose(cmd.Context(), p)
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var getMatchCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := newClient().Match(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(doc)
	},
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "List your matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		pageStart, _ := cmd.Flags().GetInt("page-start")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		c := newClient()

		if proposed, _ := cmd.Flags().GetBool("proposed"); proposed {
			docs, err := c.FindProposed(cmd.Context(), pageStart, pageSize)
			if err != nil {
				return err
			}
			return printJSON(docs)
		}

		status, _ := cmd.Flags().GetString("status")
		sport, _ := cmd.Flags().GetString("sport")
		leagueID, _ := cmd.Flags().GetString("league")
		req := client.FindRequest{
			Query:     match.Query{Status: match.Status(status), Sport: match.Sport(sport), League: leagueID},
			PageStart: pageStart,
			PageSize:  pageSize,
		}
		req.Sort.Date, _ = cmd.Flags().GetInt("sort-date")
		docs, err := c.Find(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(docs)
	},
}

var acceptCmd = &cobra.Command{
	Use:   "accept <id>",
	Short: "Accept a proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return done(newClient().Accept(cmd.Context(), args[0]))
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a match that has not been played",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return done(newClient().Cancel(cmd.Context(), args[0]))
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <id> <player>=<score>...",
	Short: "Record the final score",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scores, err := parseScores(args[1:])
		if err != nil {
			return err
		}
		return done(newClient().Complete(cmd.Context(), args[0], scores))
	},
}

var messageCmd = &cobra.Command{
	Use:   "message <id> <text>...",
	Short: "Post a message on an accepted match",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return done(newClient().Message(cmd.Context(), args[0], strings.Join(args[1:], " ")))
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <id> <stars>",
	Short: "Rate your opponent from 1 to 5 stars",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stars, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("stars must be a number: %w", err)
		}
		return done(newClient().Rate(cmd.Context(), args[0], stars))
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show and edit profiles",
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newClient().Me(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(u)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <name>...",
	Short: "Change your display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newClient().UpdateMe(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(u)
	},
}

var getUserCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := newClient().User(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(u)
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list",
	Short: "List every player",
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := newClient().Users(cmd.Context())
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\n", u.ID, u.Name)
		}
		return nil
	},
}

var leagueCmd = &cobra.Command{
	Use:   "league",
	Short: "Create and join leagues",
}

var newLeagueCmd = &cobra.Command{
	Use:   "new <sport> <name>...",
	Short: "Create a league",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newClient().CreateLeague(cmd.Context(), strings.Join(args[1:], " "), args[0])
		if err != nil {
			return err
		}
		return printJSON(l)
	},
}

var getLeagueCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a league you are a member of",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newClient().League(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(l)
	},
}

var joinLeagueCmd = &cobra.Command{
	Use:   "join <id>",
	Short: "Join a league",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return done(newClient().JoinLeague(cmd.Context(), args[0]))
	},
}

// parseScores reads player=score pairs.
func parseScores(pairs []string) (match.Scores, error) {
	scores := make(match.Scores, len(pairs))
	for _, pair := range pairs {
		player, raw, ok := strings.Cut(pair, "=")
		if !ok || player == "" {
			return nil, fmt.Errorf("invalid score %q, expected player=score", pair)
		}
		score, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q: %w", pair, err)
		}
		scores[player] = score
	}
	return scores, nil
}

func done(err error) error {
	if err != nil {
		return err
	}
	fmt.Println("Done")
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
