package token

import "sync"

var (
	registryMu sync.RWMutex

	// nextTokenID tracks the next available dynamic token ID.
	// Dynamic tokens start after maxBuiltin (999).
	nextTokenID = maxBuiltin

	// dynamicTokens maps registered dynamic tokens to their names.
	dynamicTokens = make(map[TokenType]string)

	// dynamicKeywords maps registered dynamic keyword names (lowercase)
	// to their token types.
	dynamicKeywords = make(map[string]TokenType)
)

// Register registers a new dynamic token with the given name.
// Dialects use this for keywords outside the DDL core, such as
// MySQL's AUTO_INCREMENT or UNSIGNED.
//
// Every call mints a fresh token type, so dialects register each
// keyword once, at init() time.
func Register(name string) TokenType {
	registryMu.Lock()
	defer registryMu.Unlock()

	nextTokenID++
	t := nextTokenID

	dynamicTokens[t] = name
	dynamicKeywords[name] = t

	return t
}

// getDynamicName returns the name of a dynamic token.
func getDynamicName(t TokenType) (string, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	name, ok := dynamicTokens[t]
	return name, ok
}

// LookupDynamicKeyword returns the token type for a dynamic keyword.
// Returns IDENT and false if the keyword is not registered.
func LookupDynamicKeyword(name string) (TokenType, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if tok, ok := dynamicKeywords[name]; ok {
		return tok, true
	}
	return IDENT, false
}

// IsDynamic returns true if the token type is a dynamically registered token.
func IsDynamic(t TokenType) bool {
	return t > maxBuiltin
}

// RegisteredTokens returns a copy of all registered dynamic tokens.
func RegisteredTokens() map[TokenType]string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	result := make(map[TokenType]string, len(dynamicTokens))
	for k, v := range dynamicTokens {
		result[k] = v
	}
	return result
}
