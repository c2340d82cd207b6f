package lexicon

import "time"

// Kind: 어휘 항목 종류
type Kind string

// Kind 상수 목록.
const (
	KindRegional    Kind = "regional"
	KindSynonym     Kind = "synonym"
	KindNumber      Kind = "number"
	KindContraction Kind = "contraction"
)

// Entry: 기본 어휘 테이블 위에 덧붙는 오버라이드 항목
// 유니크 인덱스: idx_lexicon_entry (language, kind, term, value)
type Entry struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Language  string    `gorm:"column:language;not null;default:'';uniqueIndex:idx_lexicon_entry,priority:1;index" json:"language" validate:"omitempty,min=2,max=16"`
	Kind      Kind      `gorm:"column:kind;not null;uniqueIndex:idx_lexicon_entry,priority:2" json:"kind" validate:"required,oneof=regional synonym number contraction"`
	Term      string    `gorm:"column:term;not null;uniqueIndex:idx_lexicon_entry,priority:3" json:"term" validate:"required,max=128"`
	Value     string    `gorm:"column:value;not null;uniqueIndex:idx_lexicon_entry,priority:4" json:"value" validate:"required,max=128"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime" json:"updatedAt"`
}

func (Entry) TableName() string { return "answer_lexicon_entries" }
