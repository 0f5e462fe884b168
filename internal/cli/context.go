package cli

import (
	"errors"
	"os"

	"github.com/lnrcli/lnr/internal/linear"
)

type commandContext struct {
	deps   Dependencies
	global *GlobalOptions
}

// resolveAPIKey walks the credential precedence chain: flag, environment,
// auth store, config file. The source tag is for `auth status`.
func (c *commandContext) resolveAPIKey() (string, string, error) {
	if c.global.APIKey != "" {
		return c.global.APIKey, "flag", nil
	}
	if env := os.Getenv("LINEAR_API_KEY"); env != "" {
		return env, "env", nil
	}
	if c.deps.AuthStore != nil {
		data, ok, err := c.deps.AuthStore.Load()
		if err != nil {
			return "", "", err
		}
		if ok && data.APIKey != "" {
			return data.APIKey, "file", nil
		}
	}
	if c.deps.Config.APIKey != "" {
		return c.deps.Config.APIKey, "config", nil
	}
	return "", "", linear.ErrMissingAPIKey
}

// apiClient builds the API client. Credential resolution happens here so a
// missing key fails before any network work.
func (c *commandContext) apiClient() (*linear.Client, error) {
	key, _, err := c.resolveAPIKey()
	if err != nil {
		return nil, err
	}
	if c.deps.NewClient == nil {
		return nil, errors.New("no API client configured")
	}
	client := c.deps.NewClient(key, c.global.Timeout)
	if c.deps.TeamCache != nil {
		client = client.WithTeamCache(c.deps.TeamCache)
	}
	return client, nil
}

// resolveTeam applies the configured default when no team flag was given.
func (c *commandContext) resolveTeam(explicit string) string {
	return c.deps.Config.ResolveTeam(explicit)
}

// requireTeam is resolveTeam for commands that cannot proceed without one.
func (c *commandContext) requireTeam(explicit string) (string, error) {
	team := c.resolveTeam(explicit)
	if team == "" {
		return "", exitError(2, linear.ErrNoTeam)
	}
	return team, nil
}

// saveCache flushes the identifier cache. Best effort: cache trouble never
// fails a command.
func (c *commandContext) saveCache() {
	if c.deps.SaveCache != nil {
		_ = c.deps.SaveCache()
	}
}
