package spectrum

// FrequencySource fills byte frequency magnitudes, low frequencies first.
type FrequencySource interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []byte) int
}

// Extractor samples a FrequencySource once per frame.
type Extractor struct {
	src  FrequencySource
	data []byte
}

func NewExtractor(src FrequencySource) *Extractor {
	return &Extractor{src: src}
}

// Frame reads the current frequency data and summarises it. Without a
// source the silent frame is returned.
func (e *Extractor) Frame() Frame {
	if e.src == nil {
		return Frame{}
	}
	if n := e.src.FrequencyBinCount(); len(e.data) != n {
		e.data = make([]byte, n)
	}
	n := e.src.ByteFrequencyData(e.data)
	return Extract(e.data[:n])
}
