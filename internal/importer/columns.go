package importer

// Kind is the validation class of a canonical column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindDate
	KindBool
)

// Column describes one field of the canonical CSV schema shared by
// import, template download, export, and the vendor-format converter.
type Column struct {
	Key      string
	Label    string
	Required bool
	Kind     Kind
}

// Columns is the canonical schema in file order. The Key row is the CSV
// header; labels are what the upload screen shows to operators.
var Columns = []Column{
	{Key: "company", Label: "企業名", Required: true},
	{Key: "name", Label: "シメイ", Required: true},
	{Key: "phone_number", Label: "電話番号", Required: true},
	{Key: "entry_route", Label: "初回エントリー経路"},
	{Key: "data_id", Label: "学生ID"},
	{Key: "grad_year", Label: "卒年度", Required: true, Kind: KindInt},
	{Key: "major_class", Label: "大分類", Required: true},
	{Key: "minor_class", Label: "小分類", Required: true},
	{Key: "first_call_date", Label: "1コール目", Kind: KindDate},
	{Key: "first_call_slot", Label: "1コール目時間区分"},
	{Key: "first_call_note", Label: "1コール目結果"},
	{Key: "second_call_date", Label: "2コール目", Kind: KindDate},
	{Key: "second_call_slot", Label: "2コール目時間区分"},
	{Key: "second_call_note", Label: "2コール目結果"},
	{Key: "third_call_date", Label: "3コール目", Kind: KindDate},
	{Key: "third_call_slot", Label: "3コール目時間区分"},
	{Key: "third_call_note", Label: "3コール目結果"},
	{Key: "needs_followup", Label: "処理必要", Kind: KindBool},
	{Key: "needs_review", Label: "Wチェ必要", Kind: KindBool},
	{Key: "resolved", Label: "TEL終了/処理済", Kind: KindBool},
	{Key: "before_notes", Label: "TEL前特記事項"},
	{Key: "after_notes", Label: "TEL後特記事項"},
	{Key: "full_name", Label: "氏名", Required: true},
	{Key: "university", Label: "大学"},
	{Key: "faculty", Label: "学部"},
	{Key: "department", Label: "学科"},
	{Key: "first_entry_date", Label: "初回エントリー日", Kind: KindDate},
}

// Keys returns the canonical header row.
func Keys() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = col.Key
	}
	return out
}
