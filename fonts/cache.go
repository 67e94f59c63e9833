package fonts

// CacheStats counts cache hits and provider calls.
type CacheStats struct {
	Hits   int
	Misses int
}

type metricsKey struct {
	h    Handle
	size float64
}

type widthKey struct {
	h    Handle
	size float64
	text string
}

// Cache memoizes provider measurements keyed by (font, size) and
// (font, size, text). It lives as long as the Library, i.e. one document.
type Cache struct {
	provider Provider
	vmetrics map[metricsKey]VMetrics
	widths   map[widthKey]float64
	stats    CacheStats
}

func newCache(p Provider) *Cache {
	return &Cache{
		provider: p,
		vmetrics: map[metricsKey]VMetrics{},
		widths:   map[widthKey]float64{},
	}
}

func (c *Cache) metrics(h Handle, size float64) (VMetrics, error) {
	key := metricsKey{h, size}
	if m, ok := c.vmetrics[key]; ok {
		c.stats.Hits++
		return m, nil
	}
	c.stats.Misses++
	m, err := c.provider.Measure(h, "", size)
	if err != nil {
		return VMetrics{}, err
	}
	c.vmetrics[key] = m.VMetrics
	return m.VMetrics, nil
}

func (c *Cache) width(h Handle, text string, size float64) (float64, error) {
	if text == "" {
		return 0, nil
	}
	key := widthKey{h, size, text}
	if w, ok := c.widths[key]; ok {
		c.stats.Hits++
		return w, nil
	}
	c.stats.Misses++
	m, err := c.provider.Measure(h, text, size)
	if err != nil {
		return 0, err
	}
	c.widths[key] = m.Advance
	if _, ok := c.vmetrics[metricsKey{h, size}]; !ok {
		c.vmetrics[metricsKey{h, size}] = m.VMetrics
	}
	return m.Advance, nil
}
