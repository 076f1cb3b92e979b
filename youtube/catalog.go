package youtube

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const maxPlaylistPage = 50

// Catalog looks up channels and lists their recent uploads through the
// YouTube Data API.
type Catalog struct {
	service *yt.Service
	logger  *log.Logger
	now     func() time.Time
}

func NewCatalog(ctx context.Context, apiKey string, logger *log.Logger) (*Catalog, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("youtube api key is not set")
	}
	if logger == nil {
		logger = log.Default()
	}

	service, err := yt.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Catalog{service: service, logger: logger, now: time.Now}, nil
}

// VideosFromYesterday returns the channel's uploads published exactly one UTC
// day before today. A channel that cannot be resolved yields an empty slice,
// the run continues with the remaining channels.
func (c *Catalog) VideosFromYesterday(ctx context.Context, channelName string) ([]Video, error) {
	playlistID, err := c.uploadsPlaylist(ctx, channelName)
	if err != nil {
		return nil, err
	}
	if playlistID == "" {
		c.logger.Printf("channel not found: %s", channelName)
		return nil, nil
	}

	yesterday := c.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	c.logger.Printf("looking for videos published on %s (UTC)", yesterday)

	resp, err := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(maxPlaylistPage).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list uploads for %s: %w", channelName, err)
	}

	videos := make([]Video, 0)
	for _, item := range resp.Items {
		publishedAt := item.ContentDetails.VideoPublishedAt
		if publishedAt == "" && item.Snippet != nil {
			publishedAt = item.Snippet.PublishedAt
		}

		published, err := time.Parse(time.RFC3339, publishedAt)
		if err != nil {
			c.logger.Printf("skip item with unparseable publish time %q: %v", publishedAt, err)
			continue
		}

		day := published.UTC().Format("2006-01-02")
		if day == yesterday {
			videoID := item.Snippet.ResourceId.VideoId
			videos = append(videos, Video{
				VideoID:     videoID,
				Title:       item.Snippet.Title,
				URL:         "https://www.youtube.com/watch?v=" + videoID,
				PublishedAt: publishedAt,
				ChannelName: channelName,
			})
		} else if day < yesterday {
			// Uploads are newest first, everything past this point is older.
			break
		}
	}

	c.logger.Printf("found %d videos from yesterday for %s", len(videos), channelName)
	return videos, nil
}

// uploadsPlaylist resolves a channel name to its uploads playlist ID. Handles
// (leading @) are looked up directly, anything else goes through search; a
// failed handle lookup falls back to search as well.
func (c *Catalog) uploadsPlaylist(ctx context.Context, channelName string) (string, error) {
	if strings.HasPrefix(channelName, "@") {
		resp, err := c.service.Channels.List([]string{"contentDetails"}).
			ForHandle(channelName).
			Context(ctx).
			Do()
		if err != nil {
			c.logger.Printf("handle lookup failed for %s: %v", channelName, err)
		} else if len(resp.Items) > 0 {
			return resp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
		} else {
			c.logger.Printf("handle %s not found, falling back to search", channelName)
		}
	}

	searchResp, err := c.service.Search.List([]string{"id"}).
		Q(channelName).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("search channel %s: %w", channelName, err)
	}
	if len(searchResp.Items) == 0 {
		return "", nil
	}

	channelID := searchResp.Items[0].Id.ChannelId
	channelResp, err := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("lookup channel %s: %w", channelID, err)
	}
	if len(channelResp.Items) == 0 {
		return "", nil
	}

	return channelResp.Items[0].ContentDetails.RelatedPlaylists.Uploads, nil
}
