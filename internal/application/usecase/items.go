package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"signlearn/internal/domain"

	"github.com/google/uuid"
)

type ItemUsecase struct {
	users UserStore
	items ItemStore

	now func() time.Time
	rng *rand.Rand
}

func NewItemUsecase(users UserStore, items ItemStore) *ItemUsecase {
	return &ItemUsecase{
		users: users,
		items: items,
		now:   func() time.Time { return time.Now().UTC() },
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (uc *ItemUsecase) WithClock(now func() time.Time) *ItemUsecase {
	uc.now = now
	return uc
}

func (uc *ItemUsecase) WithRand(rng *rand.Rand) *ItemUsecase {
	uc.rng = rng
	return uc
}

// Shop lists the catalog, warning on chests whose weights drift from 100.
func (uc *ItemUsecase) Shop(ctx context.Context) ([]domain.Item, error) {
	items, err := uc.items.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Category == domain.ItemCategoryChest {
			checkChestWeights(&items[i])
		}
	}
	return items, nil
}

func (uc *ItemUsecase) Inventory(ctx context.Context, email string) ([]string, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return append([]string{}, user.ItemsInventory...), nil
}

type BuyResult struct {
	ItemID string `json:"item_id"`
	Coins  int64  `json:"coins"`
}

func (uc *ItemUsecase) BuyItem(ctx context.Context, email, itemID string) (*BuyResult, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user.Coins < item.Price {
			return nil, domain.ErrNotEnoughCoins
		}

		inventory := append(append(domain.StringList{}, user.ItemsInventory...), item.ID)
		coins := user.Coins - item.Price

		err = uc.users.UpdateVersioned(ctx, email, user.Version, map[string]interface{}{
			"coins":           coins,
			"items_inventory": inventory,
		})
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &BuyResult{ItemID: item.ID, Coins: coins}, nil
	}
	return nil, domain.ErrVersionConflict
}

type ConsumeResult struct {
	Category   string `json:"category"`
	Coins      int64  `json:"coins,omitempty"`
	Hearts     int    `json:"hearts,omitempty"`
	WonItemID  string `json:"won_item_id,omitempty"`
	WonCoins   int64  `json:"won_coins,omitempty"`
	ActiveTill string `json:"active_till,omitempty"`
}

// ConsumeItem removes one owned item and routes its effect: immediate coin
// or heart credit, a weighted chest roll, or a timed activation.
func (uc *ItemUsecase) ConsumeItem(ctx context.Context, email, itemID string) (*ConsumeResult, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < writeAttempts; attempt++ {
		user, err := uc.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}

		inventory, owned := removeOne(user.ItemsInventory, itemID)
		if !owned {
			return nil, domain.ErrItemNotOwned
		}

		now := uc.now()
		fields := map[string]interface{}{"items_inventory": inventory}
		result := &ConsumeResult{Category: item.Category}

		switch item.Category {
		case domain.ItemCategoryCoins:
			result.Coins = user.Coins + item.Effect.Coins
			fields["coins"] = result.Coins

		case domain.ItemCategoryHearts:
			if user.Hearts >= domain.MaxHearts {
				return nil, domain.ErrMaxHearts
			}
			hearts := user.Hearts + int(item.Effect.Multiplier)
			refill := user.HeartsNextRefill
			if hearts >= domain.MaxHearts {
				hearts = domain.MaxHearts
				refill = ""
			}
			result.Hearts = hearts
			fields["hearts"] = hearts
			fields["hearts_next_refill"] = refill

		case domain.ItemCategoryChest:
			checkChestWeights(item)
			entry := drawChestEntry(item.Effect.Items, uc.rng)
			if entry.Coins > 0 {
				result.WonCoins = entry.Coins
				result.Coins = user.Coins + entry.Coins
				fields["coins"] = result.Coins
			} else {
				wonID := entry.ItemID
				if wonID == "" {
					wonID = uuid.New().String()
				}
				result.WonItemID = wonID
				fields["items_inventory"] = append(append(domain.StringList{}, inventory...), wonID)
			}

		default:
			// timed category: strip seconds_in_use into the expiry, which
			// must land strictly in the future
			if !item.Timed() {
				return nil, fmt.Errorf("%w: item %s has no usable duration", domain.ErrValidation, item.ID)
			}
			expires := now.Add(time.Duration(item.Effect.SecondsInUse) * time.Second)
			effects := map[string]float64{}
			if item.Effect.Multiplier != 0 {
				effects["multiplier"] = item.Effect.Multiplier
			}
			if item.Effect.Coins != 0 {
				effects["coins"] = float64(item.Effect.Coins)
			}
			activated := pruneExpired(user.ActivatedItems, now)
			activated = append(activated, domain.ActiveEffect{
				Category:  item.Category,
				Effects:   effects,
				ExpiresAt: expires,
			})
			result.ActiveTill = expires.UTC().Format(time.RFC3339)
			fields["activated_items"] = activated
		}

		err = uc.users.UpdateVersioned(ctx, email, user.Version, fields)
		if errors.Is(err, domain.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return result, nil
	}
	return nil, domain.ErrVersionConflict
}

func removeOne(inventory domain.StringList, itemID string) (domain.StringList, bool) {
	out := domain.StringList{}
	removed := false
	for _, id := range inventory {
		if !removed && id == itemID {
			removed = true
			continue
		}
		out = append(out, id)
	}
	return out, removed
}

// drawChestEntry picks one outcome weighted by win_percentage. A degenerate
// table (no positive weight) falls back to the first entry.
func drawChestEntry(entries []domain.ChestEntry, rng *rand.Rand) domain.ChestEntry {
	var total float64
	for _, e := range entries {
		if e.WinPercentage > 0 {
			total += e.WinPercentage
		}
	}
	if total <= 0 || len(entries) == 0 {
		if len(entries) == 0 {
			return domain.ChestEntry{}
		}
		return entries[0]
	}

	roll := rng.Float64() * total
	var cumulative float64
	for _, e := range entries {
		if e.WinPercentage <= 0 {
			continue
		}
		cumulative += e.WinPercentage
		if roll < cumulative {
			return e
		}
	}
	return entries[len(entries)-1]
}

func checkChestWeights(item *domain.Item) {
	var total float64
	for _, e := range item.Effect.Items {
		total += e.WinPercentage
	}
	if math.Abs(total-100) > 0.01 {
		log.Printf("WARN: chest %s win_percentage sums to %.2f, expected 100", item.ID, total)
	}
}

func pruneExpired(effects domain.ActiveEffects, now time.Time) domain.ActiveEffects {
	out := domain.ActiveEffects{}
	for _, e := range effects {
		if e.ExpiresAt.After(now) {
			out = append(out, e)
		}
	}
	return out
}
