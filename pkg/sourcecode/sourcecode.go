// Package sourcecode links deployed functions to the commit they were built
// from.
package sourcecode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
)

const (
	TagsEnvVar    = "DD_TAGS"
	CommitTag     = "git.commit.sha"
	RepositoryTag = "git.repository_url"
)

// Metadata identifies the checked out revision.
type Metadata struct {
	CommitSHA     string
	RepositoryURL string
}

// Tags returns the DD_TAGS items for m.
func (m Metadata) Tags() []string {
	tags := []string{CommitTag + ":" + m.CommitSHA}
	if m.RepositoryURL != "" {
		tags = append(tags, RepositoryTag+":"+m.RepositoryURL)
	}
	return tags
}

// Resolve reads HEAD and the origin remote of the repository containing dir.
func Resolve(dir string) (Metadata, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	meta := Metadata{CommitSHA: head.Hash().String()}
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			meta.RepositoryURL = sanitizeURL(urls[0])
		}
	}
	return meta, nil
}

// Apply sets the metadata tags in each function's DD_TAGS, replacing
// earlier values of the same tags.
func Apply(infos []runtime.FunctionInfo, meta Metadata) int {
	changed := 0
	for _, info := range infos {
		def := info.Definition
		if def.Environment == nil {
			def.Environment = map[string]interface{}{}
		}

		current, _ := def.Environment[TagsEnvVar].(string)
		merged := mergeTags(current, meta.Tags())
		if merged != current {
			def.Environment[TagsEnvVar] = merged
			changed++
		}
	}
	return changed
}

// mergeTags replaces items of current that share a key with add and
// appends the rest. Unrelated items keep their order.
func mergeTags(current string, add []string) string {
	replace := make(map[string]string, len(add))
	for _, item := range add {
		replace[tagKey(item)] = item
	}

	var items []string
	present := map[string]struct{}{}
	changed := false
	for _, item := range strings.Split(current, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if want, ok := replace[tagKey(item)]; ok && want != item {
			changed = true
			continue
		}
		items = append(items, item)
		present[item] = struct{}{}
	}
	for _, item := range add {
		if _, ok := present[item]; ok {
			continue
		}
		items = append(items, item)
		present[item] = struct{}{}
		changed = true
	}
	if !changed {
		return current
	}
	return strings.Join(items, ",")
}

func tagKey(item string) string {
	key, _, _ := strings.Cut(item, ":")
	return key
}

// sanitizeURL strips credentials from http(s) remotes.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.User == nil {
		return raw
	}
	u.User = nil
	return u.String()
}
