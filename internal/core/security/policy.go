package security

import "time"

// SecurityPolicy defines the security configuration.
type SecurityPolicy struct {
	// DenyList holds the fragments that mark a command as unsafe.
	// An empty list falls back to DefaultDenyList.
	DenyList []string `mapstructure:"deny_list"`

	// Confirm determines whether every command needs an explicit "y"
	// before it runs.
	Confirm bool `mapstructure:"confirm"`

	// Timeout is the per-command execution limit in seconds. Zero disables it.
	Timeout int `mapstructure:"timeout"`
}

// DefaultTimeout is the per-command execution limit used when none is configured.
const DefaultTimeout = 60 * time.Second

// DefaultDenyList returns the built-in dangerous fragments.
func DefaultDenyList() []string {
	return []string{
		"rm -rf",        // recursive forced deletion
		"chmod 777",     // world-writable permissions
		"> /dev/",       // redirection onto device files
		"dd if=",        // raw disk writes
		"mkfs",          // filesystem creation
		":(){:|:&};:",   // fork bomb
		":(){ :|:& };:", // fork bomb, spaced form
		"wget -O- | sh", // remote script piped to a shell
	}
}

// DefaultPolicy returns the default security policy.
func DefaultPolicy() *SecurityPolicy {
	return &SecurityPolicy{
		DenyList: DefaultDenyList(),
		Confirm:  true,
		Timeout:  int(DefaultTimeout / time.Second),
	}
}

// CommandTimeout returns the configured execution limit as a duration.
func (p *SecurityPolicy) CommandTimeout() time.Duration {
	if p.Timeout <= 0 {
		return 0
	}
	return time.Duration(p.Timeout) * time.Second
}
