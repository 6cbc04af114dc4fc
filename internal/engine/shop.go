package engine

import (
	"context"
	"database/sql"

	"levelquest/internal/storage"
)

// ShopEffect is one instant effect an item applies when used. Effects are
// applied through the normal reward path, so the level-up loop and the gold
// guard both hold.
type ShopEffect struct {
	Type  string `json:"type"` // instant_xp, instant_gold, stat_boost
	Value int    `json:"value"`
	Stat  Stat   `json:"stat,omitempty"`
}

type ShopItem struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Rarity      string       `json:"rarity"`
	PriceGold   int          `json:"priceGold"`
	Effects     []ShopEffect `json:"effects"`
}

// ShopCatalog is the fixed item set. Prices are gold only; there is no
// second currency.
var ShopCatalog = []ShopItem{
	{
		ID: "minor_xp_potion", Name: "Lesser Mana Potion", Icon: "FlaskRound",
		Description: "A small vial of dungeon essence. Grants 250 XP on use.",
		Rarity:      "common", PriceGold: 150,
		Effects: []ShopEffect{{Type: "instant_xp", Value: 250}},
	},
	{
		ID: "greater_xp_potion", Name: "Greater Mana Potion", Icon: "FlaskConical",
		Description: "Concentrated essence. Grants 1,000 XP on use.",
		Rarity:      "rare", PriceGold: 500,
		Effects: []ShopEffect{{Type: "instant_xp", Value: 1000}},
	},
	{
		ID: "goblin_coin", Name: "Goblin's Lucky Coin", Icon: "Coins",
		Description: "Flip it once and it pays out 100 gold.",
		Rarity:      "uncommon", PriceGold: 75,
		Effects: []ShopEffect{{Type: "instant_gold", Value: 100}},
	},
	{
		ID: "strength_elixir", Name: "Elixir of Strength", Icon: "Dumbbell",
		Description: "Permanently raises strength by 1.",
		Rarity:      "rare", PriceGold: 400,
		Effects: []ShopEffect{{Type: "stat_boost", Value: 1, Stat: StatStrength}},
	},
	{
		ID: "sage_tonic", Name: "Sage's Tonic", Icon: "BookOpen",
		Description: "Permanently raises intelligence by 1.",
		Rarity:      "rare", PriceGold: 400,
		Effects: []ShopEffect{{Type: "stat_boost", Value: 1, Stat: StatIntelligence}},
	},
	{
		ID: "iron_will_draught", Name: "Iron Will Draught", Icon: "Shield",
		Description: "Permanently raises willpower by 1.",
		Rarity:      "epic", PriceGold: 600,
		Effects: []ShopEffect{{Type: "stat_boost", Value: 1, Stat: StatWillpower}},
	},
}

// ShopItemByID looks up a catalog item; nil when unknown.
func ShopItemByID(id string) *ShopItem {
	for i := range ShopCatalog {
		if ShopCatalog[i].ID == id {
			return &ShopCatalog[i]
		}
	}
	return nil
}

type PurchaseResult struct {
	Item          ShopItem `json:"item"`
	Quantity      int      `json:"quantity"`
	GoldSpent     int      `json:"goldSpent"`
	GoldRemaining int      `json:"goldRemaining"`
}

// PurchaseItem deducts gold and adds to inventory in one transaction. An
// unaffordable purchase fails with InsufficientGoldError before anything is
// written. Lifetime gold is untouched: spending is not earning.
func (s *Service) PurchaseItem(ctx context.Context, itemID string, quantity int) (*PurchaseResult, error) {
	if quantity <= 0 {
		return nil, ValidationError{Reason: "quantity must be positive"}
	}
	item := ShopItemByID(itemID)
	if item == nil {
		return nil, NotFoundError{Kind: "shop item", ID: itemID}
	}
	cost := item.PriceGold * quantity

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &PurchaseResult{Item: *item, Quantity: quantity, GoldSpent: cost}
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := s.ledger.GetOrCreateMainIn(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := ApplyReward(l, 0, -cost, StatDeltas{}, s.now()); err != nil {
			return err
		}
		if err := s.ledger.Update(ctx, tx, l); err != nil {
			return err
		}
		if err := s.inventory.Add(ctx, tx, itemID, quantity); err != nil {
			return err
		}
		res.GoldRemaining = l.CurrentGold
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("item", itemID).Int("quantity", quantity).Int("gold", cost).Msg("item purchased")
	return res, nil
}

type UseItemResult struct {
	Item       ShopItem     `json:"item"`
	Applied    []ShopEffect `json:"applied"`
	XPGained   int          `json:"xpGained"`
	GoldGained int          `json:"goldGained"`
	LeveledUp  bool         `json:"leveledUp"`
	NewLevel   int          `json:"newLevel"`
}

// UseItem consumes one unit from inventory and applies its instant effects.
// The inventory decrement and the ledger changes commit together.
func (s *Service) UseItem(ctx context.Context, itemID string) (*UseItemResult, error) {
	item := ShopItemByID(itemID)
	if item == nil {
		return nil, NotFoundError{Kind: "shop item", ID: itemID}
	}
	inv, err := s.inventory.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.Quantity <= 0 {
		return nil, ValidationError{Reason: "item not in inventory: " + itemID}
	}

	var xp, gold int
	var stats StatDeltas
	for _, e := range item.Effects {
		switch e.Type {
		case "instant_xp":
			xp += e.Value
		case "instant_gold":
			gold += e.Value
		case "stat_boost":
			d := NewStatDeltas(e.Stat, e.Value)
			stats.Strength += d.Strength
			stats.Intelligence += d.Intelligence
			stats.Vitality += d.Vitality
			stats.Agility += d.Agility
			stats.Sense += d.Sense
			stats.Willpower += d.Willpower
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &UseItemResult{Item: *item, Applied: item.Effects, XPGained: xp, GoldGained: gold}
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := s.ledger.GetOrCreateMainIn(ctx, tx)
		if err != nil {
			return err
		}
		out, err := ApplyReward(l, xp, gold, stats, s.now())
		if err != nil {
			return err
		}
		if err := s.ledger.Update(ctx, tx, l); err != nil {
			return err
		}
		if err := s.inventory.Remove(ctx, tx, itemID, 1); err != nil {
			return err
		}
		res.LeveledUp = out.LeveledUp
		res.NewLevel = out.NewLevel
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("item", itemID).Int("xp", xp).Int("gold", gold).Msg("item used")
	return res, nil
}

// Inventory lists owned items joined with their catalog entries.
type InventoryEntry struct {
	Item     ShopItem `json:"item"`
	Quantity int      `json:"quantity"`
}

func (s *Service) Inventory(ctx context.Context) ([]InventoryEntry, error) {
	rows, err := s.inventory.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []InventoryEntry
	for _, r := range rows {
		item := ShopItemByID(r.ItemID)
		if item == nil {
			continue
		}
		out = append(out, InventoryEntry{Item: *item, Quantity: r.Quantity})
	}
	return out, nil
}
