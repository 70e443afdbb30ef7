package convert

import (
	"encoding/csv"
	"strings"
	"testing"
)

func parseOutput(t *testing.T, out []byte) [][]string {
	t.Helper()
	text := strings.TrimPrefix(string(out), "\uFEFF")
	if text == string(out) {
		t.Fatal("expected BOM on converted output")
	}
	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return rows
}

func column(t *testing.T, rows [][]string, key string, row int) string {
	t.Helper()
	for i, header := range rows[0] {
		if header == key {
			return rows[row][i]
		}
	}
	t.Fatalf("column %q not in output header", key)
	return ""
}

func TestConvertRenamesColumns(t *testing.T) {
	src := "カナ氏名,電話番号,応募者コード,氏名,学校名,学部名,学科名,登録日時\n" +
		"ヤマダ タロウ,09011112222,R-1,山田 太郎,架空大学,経済学部,経済学科,2026-04-01\n"
	out, err := Convert("riksak", []byte(src))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	rows := parseOutput(t, out)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if got := column(t, rows, "name", 1); got != "ヤマダ タロウ" {
		t.Errorf("name = %q", got)
	}
	if got := column(t, rows, "phone_number", 1); got != "09011112222" {
		t.Errorf("phone_number = %q", got)
	}
	if got := column(t, rows, "faculty", 1); got != "経済学部" {
		t.Errorf("faculty = %q", got)
	}
	if got := column(t, rows, "company", 1); got != "" {
		t.Errorf("unmapped column should be empty, got %q", got)
	}
}

func TestConvertJoinsSplitNames(t *testing.T) {
	src := "姓,名,姓カナ,名カナ,電話番号（携帯）,応募者管理ID\n" +
		"山田,太郎,ヤマダ,タロウ,08033334444,M-9\n"
	out, err := Convert("mynavi", []byte(src))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	rows := parseOutput(t, out)
	if got := column(t, rows, "full_name", 1); got != "山田 太郎" {
		t.Errorf("full_name = %q", got)
	}
	if got := column(t, rows, "name", 1); got != "ヤマダ タロウ" {
		t.Errorf("name = %q", got)
	}
	if got := column(t, rows, "data_id", 1); got != "M-9" {
		t.Errorf("data_id = %q", got)
	}
}

func TestConvertSplitsJoinedUniversity(t *testing.T) {
	src := "フリガナ,本名,ID,大学名\n" +
		"スズキ ハナコ,鈴木 花子,S-3,架空大学_文学部_史学科\n"
	out, err := Convert("saimane", []byte(src))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	rows := parseOutput(t, out)
	if got := column(t, rows, "university", 1); got != "架空大学" {
		t.Errorf("university = %q", got)
	}
	if got := column(t, rows, "faculty", 1); got != "文学部" {
		t.Errorf("faculty = %q", got)
	}
	if got := column(t, rows, "department", 1); got != "史学科" {
		t.Errorf("department = %q", got)
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	if _, err := Convert("lever", []byte("a,b\n")); err != ErrUnknownFormat {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
