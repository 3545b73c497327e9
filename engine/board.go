package engine

// TileType classifies a board tile.
type TileType uint8

const (
	TileProperty TileType = iota
	TileRailroad
	TileUtility
	TileGo
	TileJail
	TileFreeParking
	TileGoToJail
	TileTax
	TileChance
	TileCommunityChest
)

func (t TileType) String() string {
	switch t {
	case TileProperty:
		return "PROPERTY"
	case TileRailroad:
		return "RAILROAD"
	case TileUtility:
		return "UTILITY"
	case TileGo:
		return "GO"
	case TileJail:
		return "JAIL"
	case TileFreeParking:
		return "FREE_PARKING"
	case TileGoToJail:
		return "GO_TO_JAIL"
	case TileTax:
		return "TAX"
	case TileChance:
		return "CHANCE"
	case TileCommunityChest:
		return "COMMUNITY_CHEST"
	}
	return "?"
}

// Purchasable reports whether tiles of this type can be owned.
func (t TileType) Purchasable() bool {
	return t == TileProperty || t == TileRailroad || t == TileUtility
}

// Tile is one board square. The catalog fields (everything except Owner and
// Houses) are fixed for the life of a game.
type Tile struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      TileType `json:"type"`
	Price     int      `json:"price,omitempty"` // for TAX tiles: the flat deduction
	Rent      [6]int   `json:"rent,omitempty"`  // indexed by house count, 5 = hotel
	HouseCost int      `json:"houseCost,omitempty"`
	Group     string   `json:"group,omitempty"`

	// Per-game overlay.
	Owner  int `json:"ownerId"` // NoOwner until purchased
	Houses int `json:"houses"`  // 0-5, 5 = hotel, PROPERTY tiles only
}

// Group keys. Each color set has 2-3 properties; railroads and utilities
// form their own groups (they never gate building).
const (
	GroupBrown     = "Brown"
	GroupLightBlue = "LightBlue"
	GroupPink      = "Pink"
	GroupOrange    = "Orange"
	GroupRed       = "Red"
	GroupYellow    = "Yellow"
	GroupGreen     = "Green"
	GroupDarkBlue  = "DarkBlue"
	GroupRailroad  = "Railroad"
	GroupUtility   = "Utility"
)

func prop(id int, name, group string, price, houseCost int, rent [6]int) Tile {
	return Tile{ID: id, Name: name, Type: TileProperty, Price: price, Rent: rent, HouseCost: houseCost, Group: group, Owner: NoOwner}
}

func rail(id int, name string) Tile {
	return Tile{ID: id, Name: name, Type: TileRailroad, Price: 200, Group: GroupRailroad, Owner: NoOwner}
}

func util(id int, name string) Tile {
	return Tile{ID: id, Name: name, Type: TileUtility, Price: 150, Group: GroupUtility, Owner: NoOwner}
}

func special(id int, name string, typ TileType, price int) Tile {
	return Tile{ID: id, Name: name, Type: typ, Price: price, Owner: NoOwner}
}

// newBoard returns the fixed 40-tile world-tour catalog with a cleared
// ownership overlay.
func newBoard() [BoardSize]Tile {
	return [BoardSize]Tile{
		special(0, "GO", TileGo, 0),
		prop(1, "Bolivia", GroupBrown, 60, 50, [6]int{2, 10, 30, 90, 160, 250}),
		special(2, "Community Chest", TileCommunityChest, 0),
		prop(3, "Nepal", GroupBrown, 60, 50, [6]int{4, 20, 60, 180, 320, 450}),
		special(4, "Income Tax", TileTax, 200),
		rail(5, "Orient Express"),
		prop(6, "Vietnam", GroupLightBlue, 100, 50, [6]int{6, 30, 90, 270, 400, 550}),
		special(7, "Chance", TileChance, 0),
		prop(8, "Portugal", GroupLightBlue, 100, 50, [6]int{6, 30, 90, 270, 400, 550}),
		prop(9, "Morocco", GroupLightBlue, 120, 50, [6]int{8, 40, 100, 300, 450, 600}),
		special(10, "Jail", TileJail, 0),
		prop(11, "Egypt", GroupPink, 140, 100, [6]int{10, 50, 150, 450, 625, 750}),
		util(12, "Power Grid"),
		prop(13, "Turkey", GroupPink, 140, 100, [6]int{10, 50, 150, 450, 625, 750}),
		prop(14, "Thailand", GroupPink, 160, 100, [6]int{12, 60, 180, 500, 700, 900}),
		rail(15, "Shinkansen"),
		prop(16, "Mexico", GroupOrange, 180, 100, [6]int{14, 70, 200, 550, 750, 950}),
		special(17, "Community Chest", TileCommunityChest, 0),
		prop(18, "Argentina", GroupOrange, 180, 100, [6]int{14, 70, 200, 550, 750, 950}),
		prop(19, "Brazil", GroupOrange, 200, 100, [6]int{16, 80, 220, 600, 800, 1000}),
		special(20, "Free Parking", TileFreeParking, 0),
		prop(21, "Spain", GroupRed, 220, 150, [6]int{18, 90, 250, 700, 875, 1050}),
		special(22, "Chance", TileChance, 0),
		prop(23, "Italy", GroupRed, 220, 150, [6]int{18, 90, 250, 700, 875, 1050}),
		prop(24, "France", GroupRed, 240, 150, [6]int{20, 100, 300, 750, 925, 1100}),
		rail(25, "TGV"),
		prop(26, "South Korea", GroupYellow, 260, 150, [6]int{22, 110, 330, 800, 975, 1150}),
		prop(27, "Singapore", GroupYellow, 260, 150, [6]int{22, 110, 330, 800, 975, 1150}),
		util(28, "Waterworks"),
		prop(29, "Japan", GroupYellow, 280, 150, [6]int{24, 120, 360, 850, 1025, 1200}),
		special(30, "Go To Jail", TileGoToJail, 0),
		prop(31, "Germany", GroupGreen, 300, 200, [6]int{26, 130, 390, 900, 1100, 1275}),
		prop(32, "United Kingdom", GroupGreen, 300, 200, [6]int{26, 130, 390, 900, 1100, 1275}),
		special(33, "Community Chest", TileCommunityChest, 0),
		prop(34, "China", GroupGreen, 320, 200, [6]int{28, 150, 450, 1000, 1200, 1400}),
		rail(35, "Amtrak"),
		special(36, "Chance", TileChance, 0),
		prop(37, "Switzerland", GroupDarkBlue, 350, 200, [6]int{35, 175, 500, 1100, 1300, 1500}),
		special(38, "Luxury Tax", TileTax, 100),
		prop(39, "United States", GroupDarkBlue, 400, 200, [6]int{50, 200, 600, 1400, 1700, 2000}),
	}
}
