// Package auth stores and resolves the GitLab personal access token.
//
// Tokens live in the OS keyring (macOS Keychain, Windows Credential Manager,
// Linux Secret Service) via github.com/99designs/keyring, with an encrypted
// file backend on headless Linux. The file backend directory can be moved
// with GITLAB_CREDENTIALS_DIR and its passphrase set with
// GITLAB_KEYRING_PASSWORD.
//
// Priority order for token retrieval:
//  1. GITLAB_TOKEN environment variable
//  2. token_source from the config file (keyring, env:VAR or a literal token)
//
// Example usage:
//
//	if err := auth.StoreToken("glpat-abc123"); err != nil {
//	    log.Fatal(err)
//	}
//
//	token, err := auth.ResolveToken(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
package auth
