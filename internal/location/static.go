package location

import "context"

// StaticProvider reports a fixed, configured position. It stands in for the
// device provider when running from the command line.
type StaticProvider struct {
	reading Reading
}

func NewStaticProvider(lat, lng, accuracy float64) *StaticProvider {
	return &StaticProvider{reading: Reading{Lat: lat, Lng: lng, Accuracy: accuracy}}
}

func (p *StaticProvider) Request(ctx context.Context, _ Options) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, &ProviderError{Code: Timeout, Message: err.Error()}
	}
	return p.reading, nil
}
