package lifegate

import "github.com/orvanta/lifegate/jwt"

// PrincipalFromClaims converts parsed principal-token claims into the fact
// struct Resolve consumes. Unknown account type claim values map to
// [AccountTypeUnset]: a token with a garbled category resolves to
// [StateAccountTypePending] rather than tripping the defensive fallback.
func PrincipalFromClaims(claims *jwt.PrincipalClaims) *Principal {
	if claims == nil || claims.Subject == "" {
		return nil
	}
	accountType := AccountTypeUnset
	switch claims.AccountType {
	case jwt.AccountTypeIndividual:
		accountType = AccountTypeIndividual
	case jwt.AccountTypeOrg:
		accountType = AccountTypeOrg
	}
	return &Principal{
		ID:                claims.Subject,
		EmailVerified:     claims.EmailVerified,
		MustResetPassword: claims.MustResetPassword,
		Deleted:           claims.Deleted,
		AccountType:       accountType,
		PrimaryOrgID:      claims.PrimaryOrgID,
	}
}
