/*
Package category holds the fixed spending categories the backend assigns
transactions to, with the color and position each one gets in charts and
badges.
*/
package category

// Other is the category of transactions the backend left uncategorized.
const Other = "Other"

// FallbackOrder places unknown categories after every known one.
const FallbackOrder = 99

// FallbackColor is the neutral gray used for unknown categories.
const FallbackColor = "rgb(156, 163, 175)"

type Entry struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

var registry = []Entry{
	{Name: "Food & Dining", Color: "rgb(99, 102, 241)", Order: 0},
	{Name: "Transportation", Color: "rgb(245, 158, 11)", Order: 1},
	{Name: "Shopping", Color: "rgb(236, 72, 153)", Order: 2},
	{Name: "Entertainment", Color: "rgb(139, 92, 246)", Order: 3},
	{Name: "Utilities", Color: "rgb(239, 68, 68)", Order: 4},
	{Name: "Healthcare", Color: "rgb(16, 185, 129)", Order: 5},
	{Name: "Education", Color: "rgb(59, 130, 246)", Order: 6},
	{Name: "Travel", Color: "rgb(20, 184, 166)", Order: 7},
	{Name: "Transfer", Color: "rgb(107, 114, 128)", Order: 8},
	{Name: Other, Color: "rgb(156, 163, 175)", Order: 9},
}

var byName = func() map[string]Entry {
	entries := make(map[string]Entry, len(registry))
	for _, entry := range registry {
		entries[entry.Name] = entry
	}
	return entries
}()

/*
Lookup returns the registry entry for name. Names outside the registry get
FallbackColor and FallbackOrder so they render last.
*/
func Lookup(name string) Entry {
	entry, exists := byName[name]
	if !exists {
		return Entry{Name: name, Color: FallbackColor, Order: FallbackOrder}
	}
	return entry
}

// Known reports whether name is one of the fixed categories.
func Known(name string) bool {
	_, exists := byName[name]
	return exists
}

// Entries lists the registry in display order.
func Entries() []Entry {
	entries := make([]Entry, len(registry))
	copy(entries, registry)
	return entries
}

// OrDefault returns name, or Other when the backend sent none.
func OrDefault(name string) string {
	if name == "" {
		return Other
	}
	return name
}

// Names lists the fixed category names in display order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, entry := range registry {
		names = append(names, entry.Name)
	}
	return names
}
