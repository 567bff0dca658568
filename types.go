package main

// Bundle is the output of Seal. In JSON every field is standard base64.
type Bundle struct {
	Ciphertext []byte `json:"ciphertext"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Tag        []byte `json:"tag"`
}

// Record is a parsed flat-string record. The hex fields are the exact
// substrings of the input, kept for diagnostic display.
type Record struct {
	SaltHex       string
	NonceHex      string
	TagHex        string
	CiphertextHex string
	Bundle        Bundle
}

// PasswordMode selects how a password is turned into key material
type PasswordMode int

const (
	// PasswordRaw uses the password bytes as given
	PasswordRaw PasswordMode = iota
	// PasswordPadded applies PKCS#7 padding to a 32-byte block first
	PasswordPadded
)

func (m PasswordMode) String() string {
	switch m {
	case PasswordRaw:
		return "raw"
	case PasswordPadded:
		return "padded"
	default:
		return "unknown"
	}
}

// Options holds the parsed command-line flags
type Options struct {
	Flat        bool   // seal: emit a flat record instead of JSON
	RawPassword bool   // seal --flat, decode: skip password padding
	StrictExit  bool   // decode: exit 2 on authentication failure
	OutPath     string // provision: config_info destination
	Directory   string // provision: sqlite user directory
	DatabaseURL string // provision: tracker database URL
	EnvFile     string
	Verbose     bool
}

// passwordMode returns the key preparation used by the flat-record call sites
func (o Options) passwordMode() PasswordMode {
	if o.RawPassword {
		return PasswordRaw
	}
	return PasswordPadded
}
