package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolutionErrorSuggestion(t *testing.T) {
	err := NewResolutionError("com.example.Fo", []string{"/src"}, nil).WithSuggestion("Foo")
	require.Contains(t, err.Error(), `"com.example.Fo" not found`)
	require.Contains(t, err.Error(), `did you mean "Foo"?`)
}

func TestTranslationErrorFatalFlag(t *testing.T) {
	err := NewTranslationError("com.example.Bar", "unsupported pattern", nil)
	require.True(t, err.Recoverable)
	err = err.Fatal()
	require.False(t, err.Recoverable)
}

func TestDecodeErrorUnwrap(t *testing.T) {
	underlying := errors.New("short read")
	err := NewDecodeError("com.example.IFoo", 3, 12, "readInt", underlying)
	require.ErrorIs(t, err, underlying)
	require.Contains(t, err.Error(), "com.example.IFoo")
	require.Contains(t, err.Error(), "readInt")
}

func TestParseErrorUnwrap(t *testing.T) {
	underlying := errors.New("unexpected token")
	err := NewParseError("/src/Foo.aidl", underlying)
	require.ErrorIs(t, err, underlying)
	require.Contains(t, err.Error(), "/src/Foo.aidl")
}
