package realm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier([]string{"/myadmin", "/admin-login", "/admin"})

	tests := []struct {
		path string
		want Realm
	}{
		{"/", Public},
		{"/cart/", Public},
		{"/product/3", Public},
		{"/login/", Public},
		{"/myadmin/", Admin},
		{"/myadmin/products/add/", Admin},
		{"/admin-login/", Admin},
		{"/admin/", Admin},
		{"/administration", Admin}, // prefix match is deliberate
		{"/myaccount/", Public},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.path), tt.path)
	}
}

func TestClassifierSkipsEmptyPrefixes(t *testing.T) {
	// An empty prefix would match every path and swallow the public
	// realm whole.
	c := NewClassifier([]string{"", "/myadmin"})

	assert.Equal(t, Public, c.Classify("/cart/"))
	assert.Equal(t, Admin, c.Classify("/myadmin/"))
}

func TestRealmString(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "admin", Admin.String())
}
