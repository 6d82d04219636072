package club

import (
	"fmt"
	"time"

	"github.com/panscim/panscim/internal/storage"
)

var defaultPrizes = [3]storage.Prize{
	{Position: 1, Title: "Weekend stay for two", Description: "A two-night stay in a partner masseria."},
	{Position: 2, Title: "Dinner for two", Description: "A tasting dinner at a partner restaurant."},
	{Position: 3, Title: "Aperitivo experience", Description: "A guided aperitivo for two in the old town."},
}

// prizeCatalog returns the three prizes for a period, admin overrides
// taking precedence over the defaults. Index i holds position i+1.
func prizeCatalog(s storage.Storage, monthYear string) ([3]storage.Prize, error) {

	catalog := defaultPrizes
	for i := range catalog {
		catalog[i].MonthYear = monthYear
	}

	custom, err := s.GetPrizeCatalog(monthYear)
	if err != nil {
		return catalog, err
	}

	for _, prize := range custom {
		if prize.Position >= 1 && prize.Position <= 3 {
			catalog[prize.Position-1] = *prize
		}
	}

	return catalog, nil
}

// ListPrizes exposes the merged prize catalog for a period.
func (e *Engine) ListPrizes(monthYear string) ([]*storage.Prize, error) {

	catalog, err := prizeCatalog(e.storage, monthYear)
	if err != nil {
		return nil, mapStorageErr(err)
	}

	prizes := make([]*storage.Prize, 0, len(catalog))
	for i := range catalog {
		prize := catalog[i]
		prizes = append(prizes, &prize)
	}

	return prizes, nil
}

type PrizeParams struct {
	Position    int
	MonthYear   string
	Title       string
	Description string
	ImageURL    string
}

// UpsertPrize stores an administrator's override of a default prize.
func (e *Engine) UpsertPrize(params PrizeParams) (*storage.Prize, error) {

	if params.Position < 1 || params.Position > 3 {
		return nil, fmt.Errorf("%w: prize position must be 1-3", ErrValidation)
	}
	if params.Title == "" {
		return nil, fmt.Errorf("%w: prize title required", ErrValidation)
	}

	prize := &storage.Prize{
		Position:    params.Position,
		MonthYear:   params.MonthYear,
		Title:       params.Title,
		Description: params.Description,
		ImageURL:    params.ImageURL,
		IsCustom:    true,
	}

	if err := e.storage.UpsertPrize(prize); err != nil {
		return nil, mapStorageErr(err)
	}

	return prize, nil
}

// MarkPrizeRedeemed records that a winner used their prize. Redemption is
// once only; a second call reports ErrNotFound.
func (e *Engine) MarkPrizeRedeemed(monthYear string, place int, now time.Time) error {

	updated, err := e.storage.MarkPrizeUsed(monthYear, place, now.UTC())
	if err != nil {
		return mapStorageErr(err)
	}
	if !updated {
		return ErrNotFound
	}

	return nil
}
