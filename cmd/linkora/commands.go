package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-linkora/identity"
	"github.com/goliatone/go-linkora/model"
	"github.com/goliatone/go-linkora/query"
	"github.com/goliatone/go-linkora/session"
	"github.com/goliatone/go-linkora/social"
)

// runE opens the session before fn runs. On error the session is closed
// here because cobra skips the post-run hook.
func (a *app) runE(fn func(cmd *cobra.Command, s *session.Session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.session()
		if err != nil {
			return err
		}
		if err := fn(cmd, s, args); err != nil {
			_ = a.close(cmd.Context())
			return err
		}
		return nil
	}
}

// subject resolves the optional identity argument, defaulting to the caller.
func subject(s *session.Session, args []string) (identity.ID, error) {
	if len(args) == 0 {
		if s.Caller().IsZero() {
			return identity.ID{}, fmt.Errorf("no identity given and no caller configured")
		}
		return s.Caller(), nil
	}
	return identity.Parse(args[0])
}

// --- profile ---

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [identity]",
		Short: "Show a profile and its skills",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			id, err := subject(s, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			st := s.Profile(ctx, id)
			if st.Err != nil {
				return st.Err
			}
			out := cmd.OutOrStdout()
			if st.Data == nil {
				fmt.Fprintf(out, "%s has no profile yet\n", id.Short(5))
				return nil
			}
			printProfile(out, id, *st.Data)

			skills := s.Skills(ctx, id)
			if skills.Err != nil {
				return skills.Err
			}
			printStatus(out, "Skills", "%s", orNone(strings.Join(skills.Data, ", ")))
			return nil
		}),
	}
}

// --- skill ---

func newSkillCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Manage the caller's skills",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <skill>",
			Short: "Add a skill",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
				if err := s.AddSkill(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Added %s", args[0])
				return nil
			}),
		},
		&cobra.Command{
			Use:   "remove <skill>",
			Short: "Remove a skill",
			Args:  cobra.ExactArgs(1),
			RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
				if err := s.RemoveSkill(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Removed %s", args[0])
				return nil
			}),
		},
	)
	return cmd
}

// --- reputation ---

func newReputationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reputation [identity]",
		Short: "Show the reputation summary of an identity",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			id, err := subject(s, args)
			if err != nil {
				return err
			}
			sum, err := s.ReputationSummary(cmd.Context(), id)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), id, sum)
			return nil
		}),
	}
}

// --- discover ---

func newDiscoverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "discover <skill>",
		Short: "Find teammates with a skill, best match first",
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			ranked, err := s.Discover(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCandidates(cmd.OutOrStdout(), ranked)
			return nil
		}),
	}
}

// --- feed ---

func newFeedCmd(a *app) *cobra.Command {
	var global bool
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show the personalized feed, or the global one with --global",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			var st query.State[[]model.Post]
			if global || s.Caller().IsZero() {
				st = s.GlobalFeed(cmd.Context())
			} else {
				st = s.PersonalizedFeed(cmd.Context())
			}
			if st.Err != nil {
				return st.Err
			}
			printPosts(cmd.OutOrStdout(), st.Data, s.Caller())
			return nil
		}),
	}
	cmd.Flags().BoolVar(&global, "global", false, "show every post instead of the personalized feed")
	return cmd
}

// --- follow / unfollow ---

func newFollowCmd(a *app, follow bool) *cobra.Command {
	use, short := "follow <identity>", "Follow an identity"
	if !follow {
		use, short = "unfollow <identity>", "Stop following an identity"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			target, err := identity.Parse(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if follow {
				err = s.Follow(ctx, target)
			} else {
				err = s.Unfollow(ctx, target)
			}
			if err != nil {
				return err
			}

			following, err := s.IsFollowing(ctx, target)
			if err != nil {
				return err
			}
			if following {
				printSuccess(cmd.OutOrStdout(), "Following %s", target.Short(5))
			} else {
				printSuccess(cmd.OutOrStdout(), "Not following %s", target.Short(5))
			}
			return nil
		}),
	}
}

// --- followers ---

func newFollowersCmd(a *app) *cobra.Command {
	var outgoing bool
	cmd := &cobra.Command{
		Use:   "followers [identity]",
		Short: "List followers, or followed identities with --following",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			id, err := subject(s, args)
			if err != nil {
				return err
			}
			var st query.State[[]identity.ID]
			if outgoing {
				st = s.Following(cmd.Context(), id)
			} else {
				st = s.Followers(cmd.Context(), id)
			}
			if st.Err != nil {
				return st.Err
			}
			out := cmd.OutOrStdout()
			if len(st.Data) == 0 {
				fmt.Fprintln(out, "nobody yet")
				return nil
			}
			for _, who := range st.Data {
				marker := " "
				if social.IsSelf(who, s.Caller()) {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, who)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&outgoing, "following", false, "list the identities this one follows")
	return cmd
}

// --- communities ---

func newCommunitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "communities",
		Short: "List communities; joined ones are marked",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			st := s.Communities(cmd.Context())
			if st.Err != nil {
				return st.Err
			}
			printCommunities(cmd.OutOrStdout(), st.Data, s.Caller())
			return nil
		}),
	}
}

// --- events ---

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE: a.runE(func(cmd *cobra.Command, s *session.Session, args []string) error {
			st := s.Events(cmd.Context())
			if st.Err != nil {
				return st.Err
			}
			printEvents(cmd.OutOrStdout(), st.Data, s.Caller())
			return nil
		}),
	}
}
