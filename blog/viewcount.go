package blog

import (
	"context"
	"sync"

	"catalytiq/database"
	"catalytiq/logging"
)

// IncrementViewCount adds one to the post's view count. It reads the current
// value and writes it back plus one, so concurrent views can be lost; that is
// accepted for this counter. Missing posts are left alone and failures are
// logged, never returned.
func (s *Service) IncrementViewCount(ctx context.Context, postID string) {
	if err := s.incrementViewCount(ctx, postID); err != nil {
		logging.Warn("failed to increment view count", "post_id", postID, "err", err)
	}
}

func (s *Service) incrementViewCount(ctx context.Context, postID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var row database.Post
	err := s.store.Posts(ctx).Select("id", "view_count").Where("id = ?", postID).Take(&row).Error
	if err != nil {
		err = database.Normalize("read view count", err)
		if database.IsNotFound(err) {
			return nil
		}
		return err
	}

	err = s.store.Posts(ctx).Where("id = ?", postID).UpdateColumn("view_count", row.ViewCount+1).Error
	return database.Normalize("update view count", err)
}

// ViewCounter spawns view count increments that the caller never waits on.
type ViewCounter struct {
	svc *Service
	wg  sync.WaitGroup
}

func newViewCounter(svc *Service) *ViewCounter {
	return &ViewCounter{svc: svc}
}

// Track increments the post's view count in the background. It returns
// immediately; the increment runs on its own context so it outlives the
// request that triggered it.
func (v *ViewCounter) Track(postID string) {
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.Error("view count increment panicked", "post_id", postID, "panic", r)
			}
		}()
		v.svc.IncrementViewCount(context.Background(), postID)
	}()
}

// Wait blocks until every tracked increment has finished.
func (v *ViewCounter) Wait() {
	v.wg.Wait()
}
