package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/ports"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
	Units        string      `json:"units"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrixRow retrieves distance and duration from one origin to many
// destinations using the OpenRouteService matrix endpoint. keys[i] names
// destinationCoords[i] in the result.
func (o *ORSDistanceProvider) fetchMatrixRow(
	ctx context.Context,
	originCoord domain.Coordinates,
	keys []string,
	destinationCoords []domain.Coordinates,
) (map[string]ports.DistanceResult, error) {
	if len(keys) != len(destinationCoords) {
		return nil, errors.New("keys and destinationCoords are expected to have the same length")
	}

	if len(keys) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, 1+len(destinationCoords))
	locations = append(locations, originCoord.CoordsToList())
	for _, c := range destinationCoords {
		locations = append(locations, c.CoordsToList())
	}

	destIdx := make([]int, 0, len(destinationCoords))
	for i := 1; i < len(locations); i++ {
		destIdx = append(destIdx, i)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: destIdx,
		Metrics:      []string{"distance", "duration"},
		Sources:      []int{0},
		Units:        "m",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != 1 || len(mr.Durations) != 1 {
		return nil, fmt.Errorf(
			"expected 1 source row; got distances=%d durations=%d",
			len(mr.Distances), len(mr.Durations),
		)
	}

	rowDistances := mr.Distances[0]
	rowDurations := mr.Durations[0]

	if len(rowDistances) != len(keys) || len(rowDurations) != len(keys) {
		return nil, fmt.Errorf(
			"row lengths do not match destinations: distances=%d durations=%d destinations=%d",
			len(rowDistances), len(rowDurations), len(keys),
		)
	}

	out := make(map[string]ports.DistanceResult, len(keys))
	for i, key := range keys {
		metersPtr := rowDistances[i]
		secondsPtr := rowDurations[i]

		// ORS reports unroutable pairs as null.
		if metersPtr == nil || secondsPtr == nil {
			return nil, fmt.Errorf("destination %s: %w", key, ErrNoRoute)
		}

		// ORS returns float metrics; round to nearest integer for domain consistency.
		out[key] = ports.DistanceResult{
			DistanceMeters:  int(math.Round(*metersPtr)),
			DurationSeconds: int(math.Round(*secondsPtr)),
		}
	}

	return out, nil
}
