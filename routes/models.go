package routes

import (
	"github.com/DhavalSuthar-24/cricbook/internal/commentary"
	"github.com/DhavalSuthar-24/cricbook/internal/match"
	"github.com/DhavalSuthar-24/cricbook/internal/notification"
	"github.com/DhavalSuthar-24/cricbook/internal/post"
	"github.com/DhavalSuthar-24/cricbook/internal/prediction"
	"github.com/DhavalSuthar-24/cricbook/internal/series"
	"github.com/DhavalSuthar-24/cricbook/internal/team"
	"github.com/DhavalSuthar-24/cricbook/internal/user"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{}, &user.RefreshToken{}, &user.Follow{},
		&team.Team{}, &team.Player{}, &series.Series{},
		&match.Match{}, &match.Commentary{}, &match.MatchSummary{},
		&commentary.CommentaryReaction{}, &commentary.CommentaryComment{}, &commentary.CommentReaction{},
		&prediction.MatchPrediction{}, &prediction.OverSummary{}, &prediction.OverPrediction{},
		&post.Hashtag{}, &post.Post{}, &post.PostHashtag{}, &post.Comment{}, &post.Like{}, &post.Bookmark{},
		&post.Poll{}, &post.PollOption{}, &post.PollVote{},
		&notification.Notification{},
	}
}
