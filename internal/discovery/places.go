package discovery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Jasmitha1474/women-safety-app/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const nearbySearchPath = "/maps/api/place/nearbysearch/json"

type placesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// PlacesSearcher searches the Places Nearby Search API.
type PlacesSearcher struct {
	httpClient *resty.Client
	apiKey     string
	logger     *zap.Logger
}

// NewPlacesSearcher creates a searcher against baseURL.
func NewPlacesSearcher(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *PlacesSearcher {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &PlacesSearcher{
		httpClient: client,
		apiKey:     apiKey,
		logger:     logger,
	}
}

func (p *PlacesSearcher) Search(ctx context.Context, q Query) SearchResult {
	var body placesResponse
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"location": formatCoord(q.Center.Lat) + "," + formatCoord(q.Center.Lng),
			"radius":   strconv.Itoa(q.RadiusMeters),
			"type":     string(q.Category),
			"key":      p.apiKey,
		}).
		SetResult(&body).
		Get(nearbySearchPath)
	if err != nil {
		return SearchResult{Status: StatusProviderError, Err: fmt.Errorf("places search %s: %w", q.Category, err)}
	}
	if !resp.IsSuccess() {
		return SearchResult{
			Status: StatusProviderError,
			Err:    fmt.Errorf("places search %s: unexpected status %d", q.Category, resp.StatusCode()),
		}
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return SearchResult{Status: StatusNoResults}
	default:
		return SearchResult{
			Status: StatusProviderError,
			Err:    fmt.Errorf("places search %s: status %s: %s", q.Category, body.Status, body.ErrorMessage),
		}
	}

	places := make([]models.ResponderCandidate, 0, len(body.Results))
	for _, r := range body.Results {
		places = append(places, models.ResponderCandidate{
			ID:             r.PlaceID,
			Category:       q.Category,
			Position:       models.Position{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			DisplayName:    r.Name,
			AddressSnippet: r.Vicinity,
		})
	}

	p.logger.Debug("Places search completed",
		zap.String("category", string(q.Category)),
		zap.Int("results", len(places)),
	)
	return SearchResult{Status: StatusOK, Places: places}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
