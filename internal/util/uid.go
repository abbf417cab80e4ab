package util

import (
	"math/big"

	"github.com/google/uuid"
)

// DeterministicUID derives a DICOM UID from seed. The UID is the "2.25."
// root followed by the decimal value of a name-based (SHA-1) UUID, so the
// same seed always gives the same UID.
func DeterministicUID(seed string) string {
	u := uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
	return "2.25." + new(big.Int).SetBytes(u[:]).String()
}
