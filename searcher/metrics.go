package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	StartTime    time.Time
	Duration     time.Duration
	Goroutines   int
	Episodes     int
	FullPlayouts int
	TreeSize     int
}

type Collector interface {
	Start(goroutines int)
	AddFullPlayout()
	AddEpisode()
	SetTreeSize(nodes int)
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	goroutines   int
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	treeSize     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.treeSize.Store(0)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) SetTreeSize(nodes int) {
	m.treeSize.Store(int64(nodes))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Goroutines:   m.goroutines,
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		TreeSize:     int(m.treeSize.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines int)   {}
func (m *dummyCollector) AddFullPlayout()        {}
func (m *dummyCollector) AddEpisode()            {}
func (m *dummyCollector) SetTreeSize(nodes int)  {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
