package assets

import _ "embed" // 에셋 임베드용

// LexiconYAML 는 기본 어휘 테이블(지역 철자, 동의어, 축약형, 추가 수사) YAML이다.
//
//go:embed lexicon.yml
var LexiconYAML string
