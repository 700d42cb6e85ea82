package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/models"
	"github.com/DhavalSuthar-24/cricbook/internal/post"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
	"golang.org/x/sync/errgroup"
)

const (
	TypeAll      = "all"
	TypeUsers    = "users"
	TypePosts    = "posts"
	TypeHashtags = "hashtags"
	TypeMatches  = "matches"
)

type Results struct {
	Users    []models.Actor         `json:"users,omitempty"`
	Posts    []post.Post            `json:"posts,omitempty"`
	Hashtags []post.TrendingHashtag `json:"hashtags,omitempty"`
	Matches  []match.Match          `json:"matches,omitempty"`
}

// Service fans a query out to the requested sources.
type Service struct {
	users   user.UserRepository
	posts   post.PostRepository
	teams   team.TeamRepository
	matches match.MatchRepository
}

func NewService(users user.UserRepository, posts post.PostRepository, teams team.TeamRepository, matches match.MatchRepository) *Service {
	return &Service{users: users, posts: posts, teams: teams, matches: matches}
}

// Search runs the sources selected by typ concurrently, each capped at limit.
func (s *Service) Search(ctx context.Context, q, typ string, limit int) (*Results, error) {
	q = strings.TrimSpace(q)
	want := func(t string) bool { return typ == TypeAll || typ == t }

	var out Results
	g, ctx := errgroup.WithContext(ctx)
	if want(TypeUsers) {
		g.Go(func() (err error) {
			out.Users, err = s.users.Search(ctx, q, limit)
			return wrap("users", err)
		})
	}
	if want(TypePosts) {
		g.Go(func() (err error) {
			out.Posts, err = s.posts.Search(ctx, q, limit)
			return wrap("posts", err)
		})
	}
	if want(TypeHashtags) {
		g.Go(func() (err error) {
			out.Hashtags, err = s.posts.SearchHashtags(ctx, q, limit)
			return wrap("hashtags", err)
		})
	}
	if want(TypeMatches) {
		g.Go(func() error {
			teamIDs, err := s.teams.SearchTeamIDs(ctx, q)
			if err != nil {
				return wrap("teams", err)
			}
			out.Matches, err = s.matches.SearchMatches(ctx, q, teamIDs, limit)
			return wrap("matches", err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func wrap(source string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("search %s: %w", source, err)
}
