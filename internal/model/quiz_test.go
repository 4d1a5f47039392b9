package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptionList(t *testing.T) {
	raw, _ := json.Marshal([]string{"Paris", "Lyon"})
	q := QuizQuestion{Options: raw}
	assert.Equal(t, []string{"Paris", "Lyon"}, q.OptionList())
}

func TestOptionListMalformed(t *testing.T) {
	// 存储损坏时返回空列表而不是 panic
	q := QuizQuestion{Options: json.RawMessage(`{"not":"a list"}`)}
	assert.Empty(t, q.OptionList())

	empty := QuizQuestion{}
	assert.Empty(t, empty.OptionList())
}
