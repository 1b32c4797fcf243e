package events

// Category keys with a built-in display style.
const (
	CategoryWar        = "war"
	CategoryGenocide   = "genocide"
	CategoryRevolution = "revolution"
	CategoryTerror     = "terror"
	CategoryPolitics   = "politics"
	CategoryDiplomacy  = "diplomacy"
	CategoryLeader     = "leader"
	CategoryTime100    = "time_100"
	CategoryCulture    = "culture"
	CategoryCinema     = "cinema"
	CategoryMusic      = "music"

	// CategoryGeneral is assigned to imported records without a category.
	CategoryGeneral = "Genel"
)

// Generic style for categories that are used but not defined.
const (
	GenericIcon  = "fa-circle"
	GenericColor = "#7f8c8d"
	GenericTier  = 3
)

// DefaultCategories returns the built-in category definitions. Tier 1 is
// major, 2 standard and 3 context.
func DefaultCategories() map[string]Category {
	return map[string]Category{
		CategoryWar:        {Label: "Savas/Catisma", Icon: "fa-fire", Color: "#e74c3c", Tier: 1},
		CategoryGenocide:   {Label: "Soykirim", Icon: "fa-skull", Color: "#2c3e50", Tier: 1},
		CategoryRevolution: {Label: "Devrim/Rejim Degisikligi", Icon: "fa-flag", Color: "#e67e22", Tier: 1},
		CategoryTerror:     {Label: "Teror Saldirisi", Icon: "fa-bomb", Color: "#9b59b6", Tier: 2},
		CategoryPolitics:   {Label: "Politika", Icon: "fa-landmark", Color: "#16a085", Tier: 2},
		CategoryDiplomacy:  {Label: "Diplomasi", Icon: "fa-handshake", Color: "#2ecc71", Tier: 2},
		CategoryLeader:     {Label: "Onemli Lider", Icon: "fa-user", Color: "#3498db", Tier: 2},
		CategoryTime100:    {Label: "Time 100: Yüzyılın En Önemli Kişileri", Color: "#f1c40f", Tier: 3},
		CategoryCulture:    {Label: "Kültür & Toplum", Color: "#6c5ce7", Tier: 3},
		CategoryCinema:     {Label: "Sinema", Icon: "fa-film", Color: "#95a5a6", Tier: 3},
		CategoryMusic:      {Label: "Müzik", Icon: "fa-music", Color: "#e84393", Tier: 3},
	}
}

// GenericCategory returns the style given to a category key that has no definition.
func GenericCategory(key string) Category {
	return Category{Label: key, Icon: GenericIcon, Color: GenericColor, Tier: GenericTier}
}

// SeedCategories adds every default category missing from c and fills empty
// attributes of existing ones. Values already set are never replaced. It
// returns the number of categories added or changed.
func SeedCategories(c *Collection) int {
	if c.Categories == nil {
		c.Categories = make(map[string]Category)
	}
	changed := 0
	for key, def := range DefaultCategories() {
		cur, ok := c.Categories[key]
		if !ok {
			c.Categories[key] = def
			changed++
			continue
		}
		next := fillCategory(cur, def)
		if next != cur {
			c.Categories[key] = next
			changed++
		}
	}
	return changed
}

// EnsureCategories defines every category used by an event but missing from
// the collection, with the built-in style when there is one and the generic
// style otherwise. It returns the keys it added.
func EnsureCategories(c *Collection) []string {
	if c.Categories == nil {
		c.Categories = make(map[string]Category)
	}
	defaults := DefaultCategories()

	var added []string
	for _, r := range c.Events {
		if r == nil || r.Category == "" {
			continue
		}
		if _, ok := c.Categories[r.Category]; ok {
			continue
		}
		def, ok := defaults[r.Category]
		if !ok {
			def = GenericCategory(r.Category)
		}
		c.Categories[r.Category] = def
		added = append(added, r.Category)
	}
	return added
}

func fillCategory(cur, def Category) Category {
	if cur.Label == "" {
		cur.Label = def.Label
	}
	if cur.Icon == "" {
		cur.Icon = def.Icon
	}
	if cur.Color == "" {
		cur.Color = def.Color
	}
	if cur.Tier == 0 {
		cur.Tier = def.Tier
	}
	return cur
}
