package character

import "golang.org/x/text/language"

// Race and class display names per supported UI language. Rooms store a
// free-form language string chosen at creation; matching it against the
// supported set happens once here instead of in every caller.

var supported = []language.Tag{
	language.English, // default
	language.Russian,
}

var matcher = language.NewMatcher(supported)

// MatchLanguage resolves a room language string ("en", "ru", "ru-RU", ...)
// to a supported language code, defaulting to "en".
func MatchLanguage(lang string) string {
	_, idx := language.MatchStrings(matcher, lang)
	if supported[idx] == language.Russian {
		return "ru"
	}
	return "en"
}

var raceNames = map[string]map[string]string{
	"ru": {
		"Human":      "Человек",
		"Elf":        "Эльф",
		"Dwarf":      "Дварф",
		"Orc":        "Орк",
		"Halfling":   "Полурослик",
		"Dragonborn": "Драконорожденный",
		"Tiefling":   "Тифлинг",
		"Gnome":      "Гном",
	},
}

var classNames = map[string]map[string]string{
	"ru": {
		"Warrior": "Воин",
		"Mage":    "Маг",
		"Ranger":  "Следопыт",
		"Rogue":   "Плут",
		"Paladin": "Паладин",
		"Warlock": "Колдун",
		"Bard":    "Бард",
		"Cleric":  "Жрец",
		"Monk":    "Монах",
		"Druid":   "Друид",
	},
}

// DisplayRace returns the localized display name for a canonical race key.
// English keys are their own display names.
func DisplayRace(lang, race string) string {
	if names, ok := raceNames[MatchLanguage(lang)]; ok {
		if name, ok := names[race]; ok {
			return name
		}
	}
	return race
}

// DisplayClass returns the localized display name for a canonical class key.
func DisplayClass(lang, class string) string {
	if names, ok := classNames[MatchLanguage(lang)]; ok {
		if name, ok := names[class]; ok {
			return name
		}
	}
	return class
}

// CanonicalRace maps a possibly localized race name back to its canonical
// key. Unlocalized input passes through unchanged so canonical keys are
// always accepted.
func CanonicalRace(name string) string {
	for _, names := range raceNames {
		for key, localized := range names {
			if localized == name {
				return key
			}
		}
	}
	return name
}

// CanonicalClass maps a possibly localized class name back to its canonical
// key.
func CanonicalClass(name string) string {
	for _, names := range classNames {
		for key, localized := range names {
			if localized == name {
				return key
			}
		}
	}
	return name
}
