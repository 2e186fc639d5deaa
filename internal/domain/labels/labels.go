// Package labels resolves display labels and style tokens for categories,
// statuses and filters. Labels are localized through go-i18n message files
// embedded in the binary; style tokens come from fixed tables.
//
// Unknown values never fail: they resolve to the empty string and the board
// renders an unlabeled badge.
package labels

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/okian/eventboard/internal/domain/model"
)

// DefaultLocale matches the language of the bundled dataset.
const DefaultLocale = "ja"

//go:embed locales/active.*.toml
var localeFS embed.FS

var localeFiles = []string{"locales/active.ja.toml", "locales/active.en.toml"}

// Message IDs shared with the page templates.
const (
	MsgBoardTitle = "board_title"
	MsgBoardEmpty = "board_empty"
)

var categoryClasses = map[model.Category]string{
	model.CategoryUpdate:      "category-update",
	model.CategoryEvent:       "category-event",
	model.CategoryCollab:      "category-collab",
	model.CategoryMaintenance: "category-maintenance",
}

var categoryColors = map[model.Category]string{
	model.CategoryUpdate:      "bg-blue-100 text-blue-800",
	model.CategoryEvent:       "bg-red-100 text-red-800",
	model.CategoryCollab:      "bg-green-100 text-green-800",
	model.CategoryMaintenance: "bg-yellow-100 text-yellow-800",
}

var statusClasses = map[model.Status]string{
	model.StatusUpcoming:  "status-upcoming",
	model.StatusOngoing:   "status-ongoing",
	model.StatusCompleted: "status-completed",
}

var statusColors = map[model.Status]string{
	model.StatusUpcoming:  "bg-yellow-100 text-yellow-800",
	model.StatusOngoing:   "bg-green-100 text-green-800",
	model.StatusCompleted: "bg-gray-100 text-gray-800",
}

// Catalog looks up labels for one locale.
type Catalog struct {
	localizer *i18n.Localizer
	tag       language.Tag
	cache     map[string]string
}

// NewCatalog loads the embedded message files and binds a localizer for
// locale, falling back to DefaultLocale for missing messages. An unparseable
// locale is an error.
func NewCatalog(locale string) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("labels: invalid locale %q: %w", locale, err)
	}

	bundle := i18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("labels: load %s: %w", file, err)
		}
	}

	c := &Catalog{
		localizer: i18n.NewLocalizer(bundle, tag.String(), DefaultLocale),
		tag:       tag,
		cache:     make(map[string]string),
	}
	// Resolve everything up front so lookups are read-only afterwards.
	ids := []string{MsgBoardTitle, MsgBoardEmpty, filterMessageID(model.FilterAll)}
	for _, cat := range model.Categories() {
		ids = append(ids, categoryMessageID(cat))
	}
	for _, st := range []model.Status{model.StatusUpcoming, model.StatusOngoing, model.StatusCompleted} {
		ids = append(ids, statusMessageID(st))
	}
	for _, id := range ids {
		msg, err := c.localizer.Localize(&i18n.LocalizeConfig{MessageID: id})
		if err != nil {
			return nil, fmt.Errorf("labels: localize %s: %w", id, err)
		}
		c.cache[id] = msg
	}
	return c, nil
}

// MustCatalog is NewCatalog for the default locale, panicking on failure.
// The embedded files make failure a build defect.
func MustCatalog() *Catalog {
	c, err := NewCatalog(DefaultLocale)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the catalog's language tag.
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// Message returns a localized message by ID, or "" when unknown.
func (c *Catalog) Message(id string) string {
	return c.cache[id]
}

// CategoryLabel returns the display label for a category.
func (c *Catalog) CategoryLabel(cat model.Category) string {
	if !cat.Known() {
		return ""
	}
	return c.cache[categoryMessageID(cat)]
}

// StatusLabel returns the display label for a status.
func (c *Catalog) StatusLabel(st model.Status) string {
	if !st.Known() {
		return ""
	}
	return c.cache[statusMessageID(st)]
}

// FilterLabel returns the label for a filter control.
func (c *Catalog) FilterLabel(f model.Filter) string {
	if f == model.FilterAll {
		return c.cache[filterMessageID(f)]
	}
	return c.CategoryLabel(model.Category(f))
}

// CategoryClass returns the card class for a category.
func CategoryClass(cat model.Category) string { return categoryClasses[cat] }

// CategoryColor returns the badge color tokens for a category.
func CategoryColor(cat model.Category) string { return categoryColors[cat] }

// StatusClass returns the card class for a status.
func StatusClass(st model.Status) string { return statusClasses[st] }

// StatusColor returns the badge color tokens for a status.
func StatusColor(st model.Status) string { return statusColors[st] }

func categoryMessageID(cat model.Category) string { return "category_" + string(cat) }
func statusMessageID(st model.Status) string      { return "status_" + string(st) }
func filterMessageID(f model.Filter) string       { return "filter_" + string(f) }
