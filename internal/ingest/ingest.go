package ingest

import (
	"context"
	"log"
	"sync"

	"github.com/andrevlins/hn-news-cache/internal/model"
	"github.com/samber/lo"
	"github.com/tomakado/containers/set"
)

const defaultChunkSize = 20

// StoryProvider fetches a single story by id.
type StoryProvider interface {
	StoryByID(ctx context.Context, id int64) (model.Story, error)
}

// Ingestor turns an id list into a best-effort-complete set of stories.
type Ingestor struct {
	provider StoryProvider
	// Upper bound on concurrent in-flight fetches.
	chunkSize int
}

func New(provider StoryProvider, chunkSize int) *Ingestor {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	return &Ingestor{
		provider:  provider,
		chunkSize: chunkSize,
	}
}

// FetchAll fetches every id, chunk by chunk. Within a chunk all fetches run
// concurrently and all are waited for; a failed fetch is logged and dropped,
// never fatal to the batch. Chunks run one after another, which is the
// backpressure bound on outbound connections. An empty result means no usable
// data, and it is the caller's job to treat it that way.
func (i *Ingestor) FetchAll(ctx context.Context, ids []int64) []model.Story {
	seen := set.New[int64]()
	deduped := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen.Contains(id) {
			continue
		}

		seen.Add(id)
		deduped = append(deduped, id)
	}

	stories := make([]model.Story, 0, len(deduped))

	var mu sync.Mutex

	for _, chunk := range lo.Chunk(deduped, i.chunkSize) {
		var wg sync.WaitGroup

		for _, id := range chunk {
			wg.Add(1)

			go func(id int64) {
				defer wg.Done()

				story, err := i.provider.StoryByID(ctx, id)
				if err != nil {
					log.Printf("[ERROR] fetching story %d: %v", id, err)
					return
				}

				mu.Lock()
				stories = append(stories, story)
				mu.Unlock()
			}(id)
		}

		wg.Wait()
	}

	return stories
}
