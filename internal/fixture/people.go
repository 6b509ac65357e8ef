package fixture

import "fmt"

// Person has one required field and a few accessor properties.
//
//typebind:tag audit:"people"
type Person struct {
	_        struct{} `table:"people" table:"persons"`
	Name     string   `json:"name" validate:"required"`
	Age      int      `json:"age"`
	Status   Status   `json:"status"`
	email    string
	nickname string
	password string
}

func (p *Person) Email() string { return p.email }

func (p *Person) SetEmail(v string) { p.email = v }

// Nickname is readable only.
//
//typebind:tag audit:"read"
func (p *Person) Nickname() string { return p.nickname }

// SetPassword is writable only.
//
//typebind:tag audit:"write"
func (p *Person) SetPassword(v string) { p.password = v }

func (p Person) String() string { return fmt.Sprintf("%s (%d)", p.Name, p.Age) }

// PasswordSet reports whether a password was stored.
func (p *Person) PasswordSet() bool { return p.password != "" }

// Employee extends Person.
type Employee struct {
	Person `typebind:"extends"`
	Address
	Title string `validate:"required"`
}

// Address is embedded in Employee but is not its supertype.
type Address struct {
	City string `json:"city"`
}
