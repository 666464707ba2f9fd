package httpapi

import "context"

type contextKey string

const jobCallerContextKey contextKey = "internal_job_caller"

const unknownJobCaller = "unknown"

// withJobCaller records which scheduler or operator tool called an internal
// route. It is informational only; the job token is the credential.
func withJobCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, jobCallerContextKey, caller)
}

func jobCallerFromContext(ctx context.Context) string {
	caller, ok := ctx.Value(jobCallerContextKey).(string)
	if !ok || caller == "" {
		return unknownJobCaller
	}
	return caller
}
