package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var ErrNoVerifiedEmail = errors.New("github account has no email")

// GitHubUser is what the login flow needs from the GitHub API.
type GitHubUser struct {
	Login string
	Name  string
	Email string
}

type GitHubClient struct {
	cfg    *oauth2.Config
	apiURL string
}

func NewGitHubClient(clientID, clientSecret, redirectURL string) *GitHubClient {
	return &GitHubClient{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

func (c *GitHubClient) AuthURL(state string) string {
	return c.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and resolves the account's
// profile. The primary verified email wins; accounts hiding all emails are
// rejected because email is the user key.
func (c *GitHubClient) Exchange(ctx context.Context, code string) (GitHubUser, error) {
	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return GitHubUser{}, fmt.Errorf("oauth exchange: %w", err)
	}
	client := c.cfg.Client(ctx, tok)
	client.Timeout = 10 * time.Second

	var profile struct {
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.getJSON(ctx, client, "/user", &profile); err != nil {
		return GitHubUser{}, err
	}

	email := profile.Email
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := c.getJSON(ctx, client, "/user/emails", &emails); err != nil {
			return GitHubUser{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return GitHubUser{}, ErrNoVerifiedEmail
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	return GitHubUser{Login: profile.Login, Name: name, Email: email}, nil
}

func (c *GitHubClient) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github api %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
