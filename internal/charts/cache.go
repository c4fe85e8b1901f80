package charts

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"github.com/2beens/fitassess/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
)

const megabyte = 1024 * 1024

// Cache keeps rendered charts in memory so repeated inputs skip rendering.
type Cache struct {
	cache          *freecache.Cache
	expireSeconds  int
	metricsManager *metrics.Manager
}

// NewCache creates a chart cache of sizeMB megabytes. Entries above 1/1024 of
// the cache size are not kept, so holding a rendered chart takes a cache of
// roughly 64MB or more.
// metricsManager may be nil.
func NewCache(sizeMB int, expire time.Duration, metricsManager *metrics.Manager) *Cache {
	return &Cache{
		cache:          freecache.NewCache(sizeMB * megabyte),
		expireSeconds:  int(expire.Seconds()),
		metricsManager: metricsManager,
	}
}

func (c *Cache) Get(key []byte) (string, bool) {
	chart, err := c.cache.Get(key)
	if err != nil {
		c.observe("miss")
		return "", false
	}
	c.observe("hit")
	return string(chart), true
}

func (c *Cache) Set(key []byte, chart string) {
	if err := c.cache.Set(key, []byte(chart), c.expireSeconds); err != nil {
		log.Debugf("chart cache: skip entry of %d bytes: %s", len(chart), err)
	}
}

func (c *Cache) EntryCount() int64 {
	return c.cache.EntryCount()
}

func (c *Cache) observe(result string) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.CounterChartCache.WithLabelValues(result).Inc()
}

func cacheKey(kind string, w, h vg.Length, series ...[]float64) []byte {
	hash := sha256.New()
	hash.Write([]byte(kind))

	var buf [8]byte
	writeFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		hash.Write(buf[:])
	}
	writeFloat(float64(w))
	writeFloat(float64(h))
	for _, s := range series {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		hash.Write(buf[:])
		for _, v := range s {
			writeFloat(v)
		}
	}
	return hash.Sum(nil)
}
