package haram

import "context"

type ctxKey int

const accessTokenKey ctxKey = iota

// WithAccessToken attaches the caller's Haram access token to ctx. The client
// forwards it as a Bearer token on every upstream call made with ctx.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
