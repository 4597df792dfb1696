package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// resultDownload 一次转换产出的可下载结果
// 磁盘上的产物会保留，令牌只是时效性的访问凭证
type resultDownload struct {
	filePath  string
	fileName  string // 下载时展示的文件名
	expiresAt time.Time
}

type downloadStore struct {
	mu    sync.Mutex
	items map[string]resultDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]resultDownload),
	}
}

func (s *downloadStore) put(filePath, fileName string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = resultDownload{
		filePath:  filePath,
		fileName:  fileName,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (resultDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return resultDownload{}, false
	}
	if time.Now().After(v.expiresAt) {
		delete(s.items, token)
		return resultDownload{}, false
	}
	return v, true
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
