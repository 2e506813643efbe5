package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"atlassian-utils/internal/common"
	"atlassian-utils/internal/interfaces"
	"atlassian-utils/pkg/confluence"
	"atlassian-utils/pkg/jira"
)

const (
	issuesBucket   = "issues"
	pagesBucket    = "pages"
	metadataBucket = "metadata"

	lastSyncKey = "last_sync"
)

type storage struct {
	db     *bolt.DB
	config *common.StorageConfig
}

// NewStorage opens (or creates) the bbolt cache at the configured path.
func NewStorage(config *common.StorageConfig) (interfaces.Storage, error) {
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if config.BackupDir != "" {
		if err := os.MkdirAll(config.BackupDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}
	}

	db, err := bolt.Open(config.DatabasePath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{issuesBucket, pagesBucket, metadataBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &storage{db: db, config: config}, nil
}

func (s *storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *storage) SaveIssues(projectKey string, issues []*jira.IssueRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(issuesBucket))
		now := time.Now()

		for _, issue := range issues {
			key := []byte(projectKey + ":" + issue.Key)

			cached := interfaces.CachedIssue{
				Issue:     issue,
				Collected: now,
				Updated:   now,
				Version:   1,
			}
			if existing := bucket.Get(key); existing != nil {
				var prev interfaces.CachedIssue
				if err := json.Unmarshal(existing, &prev); err == nil {
					cached.Version = prev.Version + 1
					cached.Collected = prev.Collected
				}
			}

			data, err := json.Marshal(cached)
			if err != nil {
				return fmt.Errorf("failed to marshal issue %s: %w", issue.Key, err)
			}
			if err := bucket.Put(key, data); err != nil {
				return fmt.Errorf("failed to save issue %s: %w", issue.Key, err)
			}
		}

		return s.setLastSync(tx, "jira:"+projectKey, now)
	})
}

func (s *storage) LoadIssues(projectKey string) (map[string]*interfaces.CachedIssue, error) {
	issues := make(map[string]*interfaces.CachedIssue)

	err := s.db.View(func(tx *bolt.Tx) error {
		return scanPrefix(tx.Bucket([]byte(issuesBucket)), projectKey+":", func(v []byte) {
			var cached interfaces.CachedIssue
			if err := json.Unmarshal(v, &cached); err == nil && cached.Issue != nil {
				issues[cached.Issue.Key] = &cached
			}
		})
	})

	return issues, err
}

func (s *storage) IssueKeys(projectKey string) ([]string, error) {
	var keys []string

	err := s.db.View(func(tx *bolt.Tx) error {
		return scanPrefix(tx.Bucket([]byte(issuesBucket)), projectKey+":", func(v []byte) {
			var cached interfaces.CachedIssue
			if err := json.Unmarshal(v, &cached); err == nil && cached.Issue != nil {
				keys = append(keys, cached.Issue.Key)
			}
		})
	})

	return keys, err
}

func (s *storage) SavePages(spaceKey string, pages []*confluence.Result) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pagesBucket))
		now := time.Now()

		for _, page := range pages {
			key := []byte(spaceKey + ":" + page.ID)

			cached := interfaces.CachedPage{
				Page:      page,
				Collected: now,
				Updated:   now,
				Version:   1,
			}
			if existing := bucket.Get(key); existing != nil {
				var prev interfaces.CachedPage
				if err := json.Unmarshal(existing, &prev); err == nil {
					cached.Version = prev.Version + 1
					cached.Collected = prev.Collected
				}
			}

			data, err := json.Marshal(cached)
			if err != nil {
				return fmt.Errorf("failed to marshal page %s: %w", page.ID, err)
			}
			if err := bucket.Put(key, data); err != nil {
				return fmt.Errorf("failed to save page %s: %w", page.ID, err)
			}
		}

		return s.setLastSync(tx, "confluence:"+spaceKey, now)
	})
}

func (s *storage) LoadPages(spaceKey string) (map[string]*interfaces.CachedPage, error) {
	pages := make(map[string]*interfaces.CachedPage)

	err := s.db.View(func(tx *bolt.Tx) error {
		return scanPrefix(tx.Bucket([]byte(pagesBucket)), spaceKey+":", func(v []byte) {
			var cached interfaces.CachedPage
			if err := json.Unmarshal(v, &cached); err == nil && cached.Page != nil {
				pages[cached.Page.ID] = &cached
			}
		})
	})

	return pages, err
}

func (s *storage) LastSync(scope string) (time.Time, error) {
	var lastSync time.Time

	err := s.db.View(func(tx *bolt.Tx) error {
		metaBucket := tx.Bucket([]byte(metadataBucket))
		data := metaBucket.Get([]byte(scope + ":" + lastSyncKey))
		if data == nil {
			return nil
		}
		return lastSync.UnmarshalBinary(data)
	})

	return lastSync, err
}

func (s *storage) Counts() (int, int, error) {
	var issues, pages int

	err := s.db.View(func(tx *bolt.Tx) error {
		issues = tx.Bucket([]byte(issuesBucket)).Stats().KeyN
		pages = tx.Bucket([]byte(pagesBucket)).Stats().KeyN
		return nil
	})

	return issues, pages, err
}

// Cleanup removes cache entries not refreshed within the retention window.
func (s *storage) Cleanup() error {
	if s.config.RetentionDays <= 0 {
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{issuesBucket, pagesBucket} {
			bucket := tx.Bucket([]byte(name))
			c := bucket.Cursor()

			var stale [][]byte
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var meta struct {
					Updated time.Time `json:"updated"`
				}
				if err := json.Unmarshal(v, &meta); err != nil {
					continue
				}
				if meta.Updated.Before(cutoff) {
					stale = append(stale, append([]byte(nil), k...))
				}
			}

			for _, key := range stale {
				if err := bucket.Delete(key); err != nil {
					return fmt.Errorf("failed to delete stale entry: %w", err)
				}
			}
		}
		return nil
	})
}

func (s *storage) Backup() error {
	if s.config.BackupDir == "" {
		return nil
	}

	timestamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(s.config.BackupDir, fmt.Sprintf("cache_%s.db", timestamp))

	return s.db.View(func(tx *bolt.Tx) error {
		return tx.CopyFile(backupPath, 0600)
	})
}

func (s *storage) setLastSync(tx *bolt.Tx, scope string, t time.Time) error {
	data, err := t.MarshalBinary()
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(metadataBucket)).Put([]byte(scope+":"+lastSyncKey), data)
}

func scanPrefix(bucket *bolt.Bucket, prefix string, fn func(v []byte)) error {
	p := []byte(prefix)
	c := bucket.Cursor()
	for k, v := c.Seek(p); k != nil && len(k) >= len(p) && string(k[:len(p)]) == prefix; k, v = c.Next() {
		fn(v)
	}
	return nil
}
