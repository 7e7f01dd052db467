// Package auth provides driven.TokenProvider implementations for the Azure
// DevOps client. Tokens are supplied from configuration or the environment;
// acquiring them (interactive login, device flow) is left to external tools
// such as the Azure CLI.
package auth
