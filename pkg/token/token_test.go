package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupIdent(t *testing.T) {
	assert.Equal(t, SELECT, LookupIdent("select"))
	assert.Equal(t, IDENT, LookupIdent("SELECT"), "lookup expects lowercase")
	assert.Equal(t, IDENT, LookupIdent("glob"), "optional keywords are not core")
	assert.Equal(t, IDENT, LookupIdent("customers"))
}

func TestStringNames(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "ILIKE", ILIKE.String())
	assert.Equal(t, "->>", DARROW.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
}

func TestClassification(t *testing.T) {
	assert.True(t, IsKeyword(ALL))
	assert.True(t, IsKeyword(WITH))
	assert.True(t, IsKeyword(REGEXP))
	assert.False(t, IsKeyword(IDENT))
	assert.True(t, IsOperator(DCOLON))
	assert.False(t, IsOperator(SELECT))
	assert.True(t, IsSoftKeyword(ROW))
	assert.False(t, IsSoftKeyword(FROM))
}

func TestPosition(t *testing.T) {
	assert.False(t, Position{}.IsValid())
	pos := Position{Line: 3, Column: 7, Offset: 40}
	assert.True(t, pos.IsValid())
	assert.Equal(t, "3:7", pos.String())
}
