package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelqa/healix/api/schemas"
)

type fakeResolver struct {
	elements map[string]*schemas.Element
	err      error
	resolved []string
}

func (f *fakeResolver) Resolve(_ context.Context, reference string, _ []string) (*schemas.Element, error) {
	f.resolved = append(f.resolved, reference)
	if f.err != nil {
		return nil, f.err
	}
	el, ok := f.elements[reference]
	if !ok {
		return nil, errors.New("unexpected reference " + reference)
	}
	return el, nil
}

type interaction struct {
	kind    string
	locator string
	text    string
	clear   bool
}

type fakeInteractor struct {
	clickErr error
	typeErr  error
	done     []interaction
}

func (f *fakeInteractor) Click(_ context.Context, locator string) error {
	f.done = append(f.done, interaction{kind: "click", locator: locator})
	return f.clickErr
}

func (f *fakeInteractor) Type(_ context.Context, locator, text string, clearFirst bool) error {
	f.done = append(f.done, interaction{kind: "type", locator: locator, text: text, clear: clearFirst})
	return f.typeErr
}

func TestClickHealed(t *testing.T) {
	ref := Reference{Name: "submit-btn", Locators: []string{"//button"}}

	t.Run("clicks the resolved locator", func(t *testing.T) {
		resolver := &fakeResolver{elements: map[string]*schemas.Element{
			"submit-btn": {Locator: "//*[@id='submit']", Tag: "button"},
		}}
		ia := &fakeInteractor{}

		el, err := ClickHealed(context.Background(), resolver, ia, ref)
		require.NoError(t, err)
		assert.Equal(t, "//*[@id='submit']", el.Locator)
		require.Len(t, ia.done, 1)
		assert.Equal(t, interaction{kind: "click", locator: "//*[@id='submit']"}, ia.done[0])
	})

	t.Run("a resolution failure skips the interaction", func(t *testing.T) {
		resolveErr := errors.New("heal exhausted")
		resolver := &fakeResolver{err: resolveErr}
		ia := &fakeInteractor{}

		_, err := ClickHealed(context.Background(), resolver, ia, ref)
		require.ErrorIs(t, err, resolveErr)
		assert.Empty(t, ia.done)
	})

	t.Run("an interaction failure names the reference", func(t *testing.T) {
		resolver := &fakeResolver{elements: map[string]*schemas.Element{
			"submit-btn": {Locator: "//button", Tag: "button"},
		}}
		clickErr := errors.New("element not visible")
		ia := &fakeInteractor{clickErr: clickErr}

		_, err := ClickHealed(context.Background(), resolver, ia, ref)
		require.ErrorIs(t, err, clickErr)
		assert.Contains(t, err.Error(), "submit-btn")
	})
}

func TestPopulateHealed(t *testing.T) {
	ref := Reference{Name: "search-field", Locators: []string{"//input[@name='q']"}}
	resolver := &fakeResolver{elements: map[string]*schemas.Element{
		"search-field": {Locator: "//input[@name='q']", Tag: "input"},
	}}
	ia := &fakeInteractor{}

	_, err := PopulateHealed(context.Background(), resolver, ia, ref, "golang", true)
	require.NoError(t, err)
	require.Len(t, ia.done, 1)
	assert.Equal(t, interaction{kind: "type", locator: "//input[@name='q']", text: "golang", clear: true}, ia.done[0])
}

func TestPopulateCredentials(t *testing.T) {
	t.Run("fills username then password", func(t *testing.T) {
		resolver := &fakeResolver{elements: map[string]*schemas.Element{
			"username-field": {Locator: "//input[@name='username']", Tag: "input"},
			"password-field": {Locator: "//input[@name='password']", Tag: "input"},
		}}
		ia := &fakeInteractor{}

		require.NoError(t, PopulateCredentials(context.Background(), resolver, ia, "alice", "s3cret"))
		assert.Equal(t, []string{"username-field", "password-field"}, resolver.resolved)
		require.Len(t, ia.done, 2)
		assert.Equal(t, "alice", ia.done[0].text)
		assert.Equal(t, "s3cret", ia.done[1].text)
		assert.True(t, ia.done[0].clear)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		resolver := &fakeResolver{err: errors.New("no username field")}
		ia := &fakeInteractor{}

		require.Error(t, PopulateCredentials(context.Background(), resolver, ia, "alice", "s3cret"))
		assert.Empty(t, ia.done)
	})
}

func TestClickLogin(t *testing.T) {
	resolver := &fakeResolver{elements: map[string]*schemas.Element{
		"login-button": {Locator: "//button[@type='submit']", Tag: "button"},
	}}
	ia := &fakeInteractor{}

	require.NoError(t, ClickLogin(context.Background(), resolver, ia))
	require.Len(t, ia.done, 1)
	assert.Equal(t, "click", ia.done[0].kind)
}
