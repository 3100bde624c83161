package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesCodeAndDetails(t *testing.T) {
	base := ColumnNotFound([]string{"ghost_col", "other"})
	wrapped := Wrap(base, "remove columns")

	assert.Equal(t, CodeColumnNotFound, GetCode(wrapped))
	assert.Equal(t, []string{"ghost_col", "other"}, GetDetails(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestGetCode_FollowsFmtWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", ParseFailure("csv", stderrors.New("bad quote")))

	assert.True(t, HasCode(err, CodeParseFailure))
	assert.Contains(t, err.Error(), "bad quote")
}

func TestGetCode_PlainError(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("boom")))
	assert.False(t, HasCode(nil, CodeInternalError))
	assert.Equal(t, CodeInternalError, GetCode(Wrap(stderrors.New("boom"), "ctx")))
}

func TestColumnNotFound_MessageListsEveryName(t *testing.T) {
	err := ColumnNotFound([]string{"a", "b"})
	assert.Equal(t, `columns not found in dataset: ["a", "b"]`, err.Error())
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeTableNotFound, stderrors.New("stat: no such file"))
	assert.Equal(t, CodeTableNotFound, GetCode(err))
	assert.Nil(t, WithCode(CodeTableNotFound, nil))
}

func TestFileTooLarge_Message(t *testing.T) {
	assert.Equal(t, "file exceeds the 100 MB upload limit", FileTooLarge(100*1024*1024, nil).Error())
	assert.Equal(t, "file exceeds the 512 bytes upload limit", FileTooLarge(512, nil).Error())
	assert.True(t, HasCode(Wrap(FileTooLarge(512, nil), "upload"), CodeFileTooLarge))
}
