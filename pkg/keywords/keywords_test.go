package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_LatinText(t *testing.T) {
	tokens := Extract("Bob Cut practice model, Tokyo!")

	assert.Equal(t, []string{"bob", "cut", "practice", "model", "tokyo"}, tokens)
}

func TestExtract_JapaneseText(t *testing.T) {
	tokens := Extract("ボブカット 練習 モデル募集")

	assert.Equal(t, []string{"ボブカット", "練習", "モデル募集"}, tokens)
}

func TestExtract_StripsSymbolsAndShortTokens(t *testing.T) {
	tokens := Extract("a ★カット★ b2 (cheap!) x")

	// single-rune tokens and symbols are dropped, "b2" survives
	assert.Equal(t, []string{"カット", "b2", "cheap"}, tokens)
}

func TestExtract_Deterministic(t *testing.T) {
	input := "渋谷 カラーモデル cut model 渋谷"

	first := Extract(input)
	second := Extract(input)

	assert.Equal(t, first, second)
	// duplicates removed
	assert.Equal(t, []string{"渋谷", "カラーモデル", "cut", "model"}, first)
}

func TestExtract_Empty(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("!!! ??? ・・・"))
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard([]string{"カット"}, []string{"カット"}))
	assert.Equal(t, 0.5, Jaccard([]string{"カット"}, []string{"カット", "モデル"}))
	assert.Equal(t, 0.0, Jaccard([]string{"カット"}, []string{"パーマ"}))
	assert.Equal(t, 0.0, Jaccard(nil, nil))
}

func TestIsSuperset(t *testing.T) {
	assert.True(t, IsSuperset([]string{"カット", "モデル"}, []string{"カット"}))
	assert.False(t, IsSuperset([]string{"カット"}, []string{"カット"}))
	assert.False(t, IsSuperset([]string{"カット", "モデル"}, []string{"パーマ"}))
	assert.False(t, IsSuperset([]string{"カット"}, nil))
}
