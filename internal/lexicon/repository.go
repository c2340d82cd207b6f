// Package lexicon 은 기본 어휘 테이블 위에 운영 중 추가하는 오버라이드(지역 철자, 동의어, 숫자, 축약형)를 저장한다.
package lexicon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/park285/llm-kakao-bots/answer-check-go/internal/answer"
	cerrors "github.com/park285/llm-kakao-bots/answer-check-go/internal/common/errors"
	"github.com/park285/llm-kakao-bots/answer-check-go/internal/common/validation"
)

// ErrEntryNotFound: 삭제 대상 항목이 없을 때
var ErrEntryNotFound = errors.New("lexicon entry not found")

// Repository: 어휘 오버라이드 DB 리포지토리
type Repository struct {
	db *gorm.DB
}

// New: 새로운 Repository 인스턴스 생성
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AutoMigrate: 어휘 테이블 스키마 자동 마이그레이션
func (r *Repository) AutoMigrate(ctx context.Context) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	if err := r.db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return cerrors.DatabaseError{Operation: "auto_migrate", Err: err}
	}
	return nil
}

// Normalize: 항목을 저장 형태로 다듬고 검증한다.
// 축약형은 언어와 무관하므로 Language 를 비운다.
func Normalize(e Entry) (Entry, error) {
	e.Kind = Kind(strings.ToLower(strings.TrimSpace(string(e.Kind))))
	e.Term = strings.ToLower(strings.TrimSpace(e.Term))
	e.Value = strings.TrimSpace(e.Value)
	if e.Kind == KindContraction {
		e.Language = ""
	} else if lang := strings.TrimSpace(e.Language); lang != "" {
		e.Language = answer.CanonicalLanguage(lang)
	}

	if err := validation.Struct(e); err != nil {
		return Entry{}, err
	}

	switch e.Kind {
	case KindContraction:
		e.Value = strings.ToLower(e.Value)
	case KindRegional, KindSynonym, KindNumber:
		if e.Language == "" {
			return Entry{}, cerrors.LexiconError{Kind: string(e.Kind), Term: e.Term, Message: "language is required"}
		}
		if e.Kind == KindNumber && !isDigits(e.Value) {
			return Entry{}, cerrors.LexiconError{Kind: string(e.Kind), Term: e.Term, Message: "number value must be digits"}
		}
		if e.Kind == KindRegional {
			e.Value = strings.ToLower(e.Value)
		}
	}
	if strings.EqualFold(e.Term, e.Value) {
		return Entry{}, cerrors.LexiconError{Kind: string(e.Kind), Term: e.Term, Message: "term and value must differ"}
	}
	return e, nil
}

// Upsert: 항목을 삽입한다. 같은 (language, kind, term, value) 가 있으면 updated_at 만 갱신한다.
func (r *Repository) Upsert(ctx context.Context, e Entry) (Entry, error) {
	if r == nil || r.db == nil {
		return Entry{}, fmt.Errorf("db is nil")
	}

	entry, err := Normalize(e)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = 0

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "language"},
			{Name: "kind"},
			{Name: "term"},
			{Name: "value"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
	}).Create(&entry).Error; err != nil {
		return Entry{}, cerrors.DatabaseError{Operation: "upsert_lexicon_entry", Err: err}
	}

	var stored Entry
	if err := db.Where("language = ? AND kind = ? AND term = ? AND value = ?",
		entry.Language, entry.Kind, entry.Term, entry.Value).
		First(&stored).Error; err != nil {
		return Entry{}, cerrors.DatabaseError{Operation: "load_lexicon_entry", Err: err}
	}
	return stored, nil
}

// Delete: ID 로 항목을 지운다. 없으면 ErrEntryNotFound.
func (r *Repository) Delete(ctx context.Context, id uint64) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("db is nil")
	}
	result := r.db.WithContext(ctx).Delete(&Entry{}, id)
	if result.Error != nil {
		return cerrors.DatabaseError{Operation: "delete_lexicon_entry", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// List: 언어별 항목을 조회한다. language 가 비어 있으면 전체.
// 축약형은 언어와 무관하므로 언어 필터와 상관없이 포함된다.
func (r *Repository) List(ctx context.Context, language string) ([]Entry, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("db is nil")
	}

	query := r.db.WithContext(ctx).Model(&Entry{})
	if lang := strings.TrimSpace(language); lang != "" {
		query = query.Where("language = ? OR kind = ?", answer.CanonicalLanguage(lang), KindContraction)
	}

	var entries []Entry
	if err := query.Order("language, kind, term, value").Find(&entries).Error; err != nil {
		return nil, cerrors.DatabaseError{Operation: "list_lexicon_entries", Err: err}
	}
	return entries, nil
}

// ApplyTo: base 복사본에 저장된 오버라이드를 모두 덧붙여 반환한다. base 는 변경되지 않는다.
func (r *Repository) ApplyTo(ctx context.Context, base answer.Tables) (answer.Tables, error) {
	entries, err := r.List(ctx, "")
	if err != nil {
		return answer.Tables{}, err
	}

	tables := base.Clone()
	for _, e := range entries {
		switch e.Kind {
		case KindRegional:
			tables.AddRegional(e.Language, e.Term, e.Value)
		case KindSynonym:
			tables.AddSynonym(e.Language, e.Term, e.Value)
		case KindNumber:
			tables.AddNumber(e.Language, e.Term, e.Value)
		case KindContraction:
			tables.AddContraction(e.Term, e.Value)
		}
	}
	return tables, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
