package patterns

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func newPatternService() *Service {
	return NewService(NewMemoryRepo(), NewMemoryCallResultsRepo())
}

func TestSavePatternAssignsItemIDsAndReplaces(t *testing.T) {
	svc := newPatternService()
	ctx := context.Background()

	first, err := svc.SavePattern(ctx, "comp-1", []PatternItem{
		{MajorClass: " 営業 "},
		{MajorClass: "事務", TalkScriptURL: "https://docs.example.com/jimu"},
	})
	if err != nil {
		t.Fatalf("SavePattern: %v", err)
	}
	for _, item := range first.Items {
		if item.ID == "" {
			t.Fatalf("expected generated item id, got %+v", item)
		}
	}
	if first.Items[0].MajorClass != "営業" {
		t.Fatalf("expected trimmed major class, got %q", first.Items[0].MajorClass)
	}

	second, err := svc.SavePattern(ctx, "comp-1", []PatternItem{{MajorClass: "開発"}})
	if err != nil {
		t.Fatalf("SavePattern replace: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stable pattern id across saves, got %q then %q", first.ID, second.ID)
	}

	classes, err := svc.MajorClasses(ctx, "comp-1")
	if err != nil {
		t.Fatalf("MajorClasses: %v", err)
	}
	if !reflect.DeepEqual(classes, []string{"開発"}) {
		t.Fatalf("expected replaced classes, got %v", classes)
	}
}

func TestSavePatternRejectsBlankMajorClass(t *testing.T) {
	svc := newPatternService()
	_, err := svc.SavePattern(context.Background(), "comp-1", []PatternItem{{MajorClass: "  "}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSavePatternRejectsUnknownCallResult(t *testing.T) {
	svc := newPatternService()
	_, err := svc.SavePattern(context.Background(), "comp-1", []PatternItem{
		{MajorClass: "営業", CallResultID: "missing"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMajorClassesNilWithoutPattern(t *testing.T) {
	svc := newPatternService()
	classes, err := svc.MajorClasses(context.Background(), "comp-none")
	if err != nil {
		t.Fatalf("MajorClasses: %v", err)
	}
	if classes != nil {
		t.Fatalf("expected nil for unconfigured company, got %v", classes)
	}
}

func TestTalkScriptURLResolvesByMajorClass(t *testing.T) {
	svc := newPatternService()
	ctx := context.Background()
	if _, err := svc.SavePattern(ctx, "comp-1", []PatternItem{
		{MajorClass: "営業", TalkScriptURL: "https://docs.example.com/eigyo"},
		{MajorClass: "事務"},
	}); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	url, err := svc.TalkScriptURL(ctx, "comp-1", "営業")
	if err != nil || url != "https://docs.example.com/eigyo" {
		t.Fatalf("expected script url, got %q err=%v", url, err)
	}
	url, err = svc.TalkScriptURL(ctx, "comp-1", "事務")
	if err != nil || url != "" {
		t.Fatalf("expected empty url for class without script, got %q err=%v", url, err)
	}
	url, err = svc.TalkScriptURL(ctx, "comp-other", "営業")
	if err != nil || url != "" {
		t.Fatalf("expected empty url for unconfigured company, got %q err=%v", url, err)
	}
}

func TestCreateCallResultValidatesAndSplits(t *testing.T) {
	svc := newPatternService()
	ctx := context.Background()

	if _, err := svc.CreateCallResult(ctx, "  ", "不在,再コール"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	result, err := svc.CreateCallResult(ctx, "標準", " 不在 ,,再コール,接続 ")
	if err != nil {
		t.Fatalf("CreateCallResult: %v", err)
	}
	want := []string{"不在", "再コール", "接続"}
	if !reflect.DeepEqual(result.ResultList(), want) {
		t.Fatalf("expected %v, got %v", want, result.ResultList())
	}

	listed, err := svc.ListCallResults(ctx)
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one stored call result, got %v err=%v", listed, err)
	}
}
