package sheets

import (
	"context"
	"errors"
	"fmt"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/platform/obs"
	"storefront-delivery-service/internal/schedule"

	log "github.com/sirupsen/logrus"
)

// ScheduleSource reads the weekly hours sheet. Rows carry the columns
// dia, apertura, cierre and estado.
type ScheduleSource struct {
	client *Client
	url    string
}

func NewScheduleSource(client *Client, url string) (*ScheduleSource, error) {
	if client == nil {
		return nil, errors.New("NewScheduleSource: client is nil")
	}
	if url == "" {
		return nil, errors.New("NewScheduleSource: url is empty")
	}
	return &ScheduleSource{client: client, url: url}, nil
}

func (s *ScheduleSource) FetchWeek(ctx context.Context) (_ domain.Week, err error) {
	defer obs.Time(ctx, "sheets.FetchWeek")(&err)

	rows, err := s.client.Rows(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("FetchWeek: %w", err)
	}

	week, skipped := schedule.NormalizeRows(rows)
	if len(skipped) > 0 {
		obs.Logger(ctx).WithFields(log.Fields{
			"skipped": skipped,
		}).Warn("schedule rows skipped")
	}

	return week, nil
}
