package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"socialgraph/domain/core/entities"

	"gopkg.in/yaml.v3"
)

// Snapshot is a point-in-time export of the social application's users and
// posts, as read from a YAML or JSON file
type Snapshot struct {
	Users []entities.User `json:"users" yaml:"users"`
	Posts []entities.Post `json:"posts" yaml:"posts"`
}

// LoadSnapshotFile reads a snapshot; the format follows the file extension
// (.json, otherwise YAML)
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	return ParseSnapshot(data, filepath.Ext(path))
}

// ParseSnapshot decodes snapshot data. ext selects the format the same way
// LoadSnapshotFile does.
func ParseSnapshot(data []byte, ext string) (*Snapshot, error) {
	var snapshot Snapshot
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &snapshot); err != nil {
			return nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
		}
	}

	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Validate rejects records without identifiers and duplicate identifiers
func (s *Snapshot) Validate() error {
	users := make(map[string]bool, len(s.Users))
	for i, u := range s.Users {
		if u.ID.IsZero() {
			return fmt.Errorf("user %d has no id", i)
		}
		if users[u.ID.String()] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		users[u.ID.String()] = true
	}

	posts := make(map[string]bool, len(s.Posts))
	for i, p := range s.Posts {
		if p.ID.IsZero() {
			return fmt.Errorf("post %d has no id", i)
		}
		if p.AuthorID.IsZero() {
			return fmt.Errorf("post %q has no author", p.ID)
		}
		if posts[p.ID.String()] {
			return fmt.Errorf("duplicate post id %q", p.ID)
		}
		posts[p.ID.String()] = true
	}
	return nil
}
