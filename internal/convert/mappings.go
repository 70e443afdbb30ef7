package convert

// Format describes how one recruiting platform's export maps onto the
// canonical schema. Most of a format is header renames; the join and
// split fields cover the vendors that ship names or school info in a
// shape the canonical schema does not use.
type Format struct {
	ID    string
	Label string
	// Headers maps a source column header to a canonical column key.
	Headers map[string]string
	// JoinFullName concatenates two source columns (space separated)
	// into full_name.
	JoinFullName [2]string
	// JoinName does the same for the kana reading in name.
	JoinName [2]string
	// SplitUniversity names a source column holding
	// university_faculty_department in one underscore-joined value.
	SplitUniversity string
}

// Formats lists the supported vendor exports.
var Formats = []Format{
	{
		ID:    "airwork",
		Label: "Airワーク",
		Headers: map[string]string{
			"ふりがな":     "name",
			"電話番号":     "phone_number",
			"応募ID":     "data_id",
			"応募者名":     "full_name",
			"学校名":      "university",
			"学部・学科・専攻": "faculty",
			"応募日時":     "first_entry_date",
		},
	},
	{
		ID:    "riksak",
		Label: "riksak",
		Headers: map[string]string{
			"カナ氏名": "name",
			"電話番号": "phone_number",
			"応募者コード": "data_id",
			"氏名":   "full_name",
			"学校名":  "university",
			"学部名":  "faculty",
			"学科名":  "department",
			"登録日時": "first_entry_date",
		},
	},
	{
		ID:    "mynavi",
		Label: "マイナビ",
		Headers: map[string]string{
			"電話番号（携帯）":  "phone_number",
			"応募者管理ID":   "data_id",
			"学校名":       "university",
			"学部名":       "faculty",
			"学科名":       "department",
			"初回エントリー日時": "first_entry_date",
		},
		JoinFullName: [2]string{"姓", "名"},
		JoinName:     [2]string{"姓カナ", "名カナ"},
	},
	{
		ID:    "iweb",
		Label: "i-web",
		Headers: map[string]string{
			"カナ氏名":   "name",
			"携帯電話番号": "phone_number",
			"応募者コード": "data_id",
			"漢字氏名":   "full_name",
			"大学名称":   "university",
			"学部名称":   "faculty",
			"学科名称":   "department",
			"初回登録日":  "first_entry_date",
		},
	},
	{
		ID:    "saimane",
		Label: "採マネ",
		Headers: map[string]string{
			"フリガナ": "name",
			"電話番号": "phone_number",
			"ID":   "data_id",
			"本名":   "full_name",
			"学校名":  "university",
			"学部・学科": "faculty",
		},
		SplitUniversity: "大学名",
	},
	{
		ID:    "kanrikun",
		Label: "かんりくん",
		Headers: map[string]string{
			"ID":     "data_id",
			"携帯電話番号": "phone_number",
			"学校名":    "university",
			"学部名":    "faculty",
			"学科名":    "department",
			"エントリー日": "first_entry_date",
		},
		JoinFullName: [2]string{"姓", "名"},
		JoinName:     [2]string{"セイ", "メイ"},
	},
}

// FormatByID looks up a supported format.
func FormatByID(id string) (Format, bool) {
	for _, f := range Formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}
