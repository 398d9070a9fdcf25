package correction

// DefaultPriority is the priority given to the built-in game terms.
const DefaultPriority = 10

var defaultGameTerms = [][2]string{
	{"HP", "生命值"},
	{"MP", "魔法值"},
	{"EXP", "经验值"},
	{"Level", "等级"},
	{"Attack", "攻击力"},
	{"Defense", "防御力"},
	{"Speed", "速度"},
	{"Critical", "暴击"},
	{"Skill", "技能"},
	{"Item", "道具"},
	{"Equipment", "装备"},
	{"Weapon", "武器"},
	{"Armor", "护甲"},
	{"Quest", "任务"},
	{"Mission", "任务"},
	{"Boss", "首领"},
	{"Guild", "公会"},
	{"Team", "队伍"},
	{"Player", "玩家"},
	{"Character", "角色"},
}

// DefaultEntries returns the built-in English to Chinese game terms.
func DefaultEntries() []Entry {
	entries := make([]Entry, 0, len(defaultGameTerms))
	for _, term := range defaultGameTerms {
		entries = append(entries, Entry{
			SourceText:         term[0],
			CorrectTranslation: term[1],
			SourceLang:         "en",
			TargetLang:         "zh",
			Category:           CategoryGameTerm,
			Priority:           DefaultPriority,
		})
	}
	return entries
}

// Seed adds every entry to the table and returns how many were added.
func Seed(t *Table, entries []Entry) (int, error) {
	n := 0
	for _, e := range entries {
		if _, err := t.Add(e); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
