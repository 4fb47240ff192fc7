package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/dghubble/oauth1"

	"github.com/vendly/marketplace/pkg/httpclient"
)

// defaultTweetEndpoint is the X/Twitter v2 tweet creation endpoint.
const defaultTweetEndpoint = "https://api.twitter.com/2/tweets"

// TwitterConfig holds the OAuth1 credentials for the posting API. Endpoint
// is optional and overrides the production API URL.
type TwitterConfig struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	Endpoint          string
}

// Complete reports whether all four credentials are configured.
func (c TwitterConfig) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Twitter posts announcements to the X/Twitter API. The OAuth1-signed client
// is built once and reused across all calls.
type Twitter struct {
	client   *httpclient.CircuitBreakerClient
	endpoint string
	logger   *slog.Logger
}

// NewTwitter creates a Twitter announcer. The credentials are baked into a
// signing transport wrapped in the shared retrying, circuit-breaking HTTP
// client.
func NewTwitter(cfg TwitterConfig, logger *slog.Logger) *Twitter {
	oauthCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)
	signing := oauthCfg.Client(oauth1.NoContext, token).Transport

	base := httpclient.NewWithTransport(httpclient.DefaultConfig(), signing)
	client := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("twitter"), logger)

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultTweetEndpoint
	}

	return &Twitter{
		client:   client,
		endpoint: endpoint,
		logger:   logger,
	}
}

type tweetRequest struct {
	Text string `json:"text"`
}

// Announce formats the announcement as a tweet and posts it. Returns an
// error on any transport or API failure; callers are expected to log and
// discard it.
func (t *Twitter) Announce(ctx context.Context, a Announcement) error {
	text, err := formatTweet(a)
	if err != nil {
		return err
	}

	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal tweet: %w", err)
	}

	resp, err := t.client.Post(ctx, t.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post tweet: unexpected status %d: %s", resp.StatusCode, detail)
	}

	t.logger.DebugContext(ctx, "posted announcement",
		slog.String("kind", a.Kind),
	)

	return nil
}

func formatTweet(a Announcement) (string, error) {
	switch a.Kind {
	case KindStoreCreated:
		return fmt.Sprintf("🏪 New Store Alert!\n\n📛 %s\n\n📝 %s\n\n#eCommerce #NewStore",
			a.StoreName, truncate(a.Description, 200)), nil
	case KindProductCreated:
		return fmt.Sprintf("🛍️ New Product Alert!\n\n🏪 Store: %s\n📦 Product: %s\n💰 Price: $%s\n\n📝 %s\n\n#eCommerce #NewProduct #Shopping",
			a.StoreName, a.ProductName, a.Price, truncate(a.Description, 150)), nil
	default:
		return "", fmt.Errorf("unknown announcement kind %q", a.Kind)
	}
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
