package invite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/invite"
	"dispatch/internal/core/domain/model/kernel"
)

func TestBucket_Put(t *testing.T) {
	// Arrange
	b := invite.NewBucket(42)
	first := invite.Invite{Region: "Andijon", ChatID: -2002, Link: "https://t.me/+a", Prompt: kernel.MessageRef{ChatID: 42, MessageID: 10}}
	second := invite.Invite{Region: "Andijon", ChatID: -2002, Link: "https://t.me/+b", Prompt: kernel.MessageRef{ChatID: 42, MessageID: 11}}

	// Act
	_, replaced := b.Put(first)
	prev, replacedAgain := b.Put(second)

	// Assert
	assert.False(t, replaced)
	require.True(t, replacedAgain)
	assert.Equal(t, first, prev)
	assert.Equal(t, []string{"Andijon"}, b.Regions())
}

func TestBucket_ConsumeChat(t *testing.T) {
	// Arrange
	b := invite.NewBucket(42)
	b.Put(invite.Invite{Region: "Andijon", ChatID: -2002})
	b.Put(invite.Invite{Region: "Namangan", ChatID: -2003})

	// Act
	inv, ok := b.ConsumeChat(-2003)
	_, again := b.ConsumeChat(-2003)

	// Assert
	require.True(t, ok)
	assert.Equal(t, "Namangan", inv.Region)
	assert.False(t, again)
	assert.Equal(t, []string{"Andijon"}, b.Regions())
	assert.False(t, b.IsEmpty())
}

func TestBucket_Clone(t *testing.T) {
	b := invite.NewBucket(42)
	b.Put(invite.Invite{Region: "Andijon", ChatID: -2002})

	c := b.Clone()
	c.ConsumeChat(-2002)

	assert.Equal(t, []string{"Andijon"}, b.Regions())
	assert.True(t, c.IsEmpty())
}
