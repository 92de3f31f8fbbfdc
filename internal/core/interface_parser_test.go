package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skerry/internal/types"
)

func newInterfaceParser(declared ...types.TypeResult) *interfaceParser {
	return &interfaceParser{tracker: newUsageTracker(), declared: declared}
}

func declaredUser() types.TypeResult {
	return types.TypeResult{Decl: types.TypeDecl{
		Name: "User",
		Properties: []types.PropertyDecl{
			{Name: "id", Type: types.DataTypeDecl{Type: types.PrimitiveStr, Required: true}},
		},
	}}
}

func TestInterfaceParserMinimalGet(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: news
method: get
`))
	require.NoError(t, err)
	assert.Equal(t, "news", decl.Path)
	assert.Empty(t, decl.Params)
	assert.Equal(t, types.MethodGet, decl.Spec.Method)
	assert.Nil(t, decl.Spec.Payload)
	assert.Nil(t, decl.Spec.Responses)
}

func TestInterfaceParserGetWithQuery(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: news
method: get
query:
  page: int
  limit: int?
`))
	require.NoError(t, err)
	payload := decl.Spec.Payload
	require.NotNil(t, payload)
	assert.Equal(t, types.PayloadQuery, payload.Kind)
	require.Len(t, payload.Properties, 2)
	assert.Equal(t, "page", payload.Properties[0].Name)
	assert.True(t, payload.Properties[0].Type.Required)
	assert.Equal(t, "limit", payload.Properties[1].Name)
	assert.False(t, payload.Properties[1].Type.Required)
}

func TestInterfaceParserBodyForbiddenOnGet(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: news
method: get
query:
  page: int
body:
  title: str
`))
	require.ErrorIs(t, err, types.ErrBodyNotAllowed)
}

func TestInterfaceParserPostWithBody(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: news/post
method: post
body:
  title: str
`))
	require.NoError(t, err)
	payload := decl.Spec.Payload
	require.NotNil(t, payload)
	assert.Equal(t, types.PayloadBody, payload.Kind)
	require.Len(t, payload.Properties, 1)
	assert.Equal(t, "title", payload.Properties[0].Name)
}

func TestInterfaceParserQueryForbiddenOnPost(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: news/post
method: post
query:
  page: int
`))
	require.ErrorIs(t, err, types.ErrQueryNotAllowed)
}

func TestInterfaceParserDeleteForbidsPayloads(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: news/post/{post_id}
method: delete
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"post_id"}, decl.Params)
	assert.Nil(t, decl.Spec.Payload)

	_, err = parser.parse(docNode(t, `
path: news/post/{post_id}
method: delete
body:
  title: str
`))
	require.ErrorIs(t, err, types.ErrBodyNotAllowed)

	// Both present still reports exactly one error: query wins.
	_, err = parser.parse(docNode(t, `
path: news/post/{post_id}
method: delete
query:
  page: int
body:
  title: str
`))
	require.ErrorIs(t, err, types.ErrQueryNotAllowed)
	require.NotErrorIs(t, err, types.ErrBodyNotAllowed)
}

func TestInterfaceParserPathParams(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: users/{user_id}/posts/{post_id}
method: get
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "post_id"}, decl.Params)
}

func TestInterfaceParserEmptyPathParam(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: news/post/{}
method: get
`))
	require.ErrorIs(t, err, types.ErrEmptyPathParam)
}

func TestInterfaceParserMissingPath(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `method: get`))
	require.ErrorIs(t, err, types.ErrInvalidPath)
}

func TestInterfaceParserUnknownMethod(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: news
method: options
`))
	var methodErr *types.InvalidMethodError
	require.ErrorAs(t, err, &methodErr)
	assert.Equal(t, "options", methodErr.Method)
}

func TestInterfaceParserResponseNamedType(t *testing.T) {
	parser := newInterfaceParser(declaredUser())
	decl, err := parser.parse(docNode(t, `
path: users/{user_id}
method: get
response: User
`))
	require.NoError(t, err)
	require.NotNil(t, decl.Spec.Responses)
	response, ok := decl.Spec.Responses[types.Fixed(200)]
	require.True(t, ok)
	assert.Equal(t, "User", response.Name)
	require.Len(t, response.Properties, 1)
	assert.Equal(t, "id", response.Properties[0].Name)
}

func TestInterfaceParserResponseUnknownType(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: users
method: get
response: Ghost
`))
	var notFound *types.TypeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Ghost", notFound.Name)
}

func TestInterfaceParserResponseImplicit200Body(t *testing.T) {
	parser := newInterfaceParser()
	decl, err := parser.parse(docNode(t, `
path: news
method: get
response:
  items: array[str]
  total: int
`))
	require.NoError(t, err)
	require.Len(t, decl.Spec.Responses, 1)
	response, ok := decl.Spec.Responses[types.Fixed(200)]
	require.True(t, ok)
	require.Len(t, response.Properties, 2)
	assert.Equal(t, "items", response.Properties[0].Name)
}

func TestInterfaceParserResponseStatusCoded(t *testing.T) {
	parser := newInterfaceParser(declaredUser())
	decl, err := parser.parse(docNode(t, `
path: news
method: get
response:
  200:
    items: array[str]
  4xx:
    message: str
  500: User
`))
	require.NoError(t, err)
	responses := decl.Spec.Responses
	require.Len(t, responses, 3)

	okBody, found := responses[types.Fixed(200)]
	require.True(t, found)
	assert.Equal(t, "items", okBody.Properties[0].Name)

	clientErr, found := responses[types.Prefix(4)]
	require.True(t, found)
	assert.Equal(t, "message", clientErr.Properties[0].Name)

	serverErr, found := responses[types.Fixed(500)]
	require.True(t, found)
	assert.Equal(t, "User", serverErr.Name)
}

func TestInterfaceParserInvalidStatusKeys(t *testing.T) {
	parser := newInterfaceParser()
	tests := []struct {
		name string
		src  string
	}{
		{name: "two digit code", src: "path: a\nmethod: get\nresponse:\n  20:\n    x: str\n"},
		{name: "mixed digits", src: "path: a\nmethod: get\nresponse:\n  20x:\n    x: str\n"},
		{name: "four digits", src: "path: a\nmethod: get\nresponse:\n  2000:\n    x: str\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parser.parse(docNode(t, tc.src))
			require.ErrorIs(t, err, types.ErrInvalidStatusCode)
		})
	}
}

func TestInterfaceParserInvalidQueryShape(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `
path: news
method: get
query: just a string
`))
	require.ErrorIs(t, err, types.ErrInvalidQuery)
}

func TestInterfaceParserNonMappingDeclaration(t *testing.T) {
	parser := newInterfaceParser()
	_, err := parser.parse(docNode(t, `just a string`))
	require.ErrorIs(t, err, types.ErrInvalidInterfaceDeclaration)
}

func TestInterfaceParserFragmentShapes(t *testing.T) {
	parser := newInterfaceParser()

	var fromList []types.InterfaceResult
	require.NoError(t, parser.parseFragment(docNode(t, `
- path: news
  method: get
- path: news/post
  method: post
`), &fromList))
	require.Len(t, fromList, 2)
	assert.NoError(t, fromList[0].Err)
	assert.NoError(t, fromList[1].Err)

	var fromMapping []types.InterfaceResult
	require.NoError(t, parser.parseFragment(docNode(t, `
_import: other.yaml
declarations:
  - path: health
    method: get
  - _import: nested.yaml
  - 42
`), &fromMapping))
	require.Len(t, fromMapping, 2)
	assert.NoError(t, fromMapping[0].Err)
	assert.ErrorIs(t, fromMapping[1].Err, types.ErrInvalidInterfaceDeclaration)
}
