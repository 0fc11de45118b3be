package docs

import (
	"fmt"

	"github.com/jcdickinson/soldoc/internal/artifact"
)

// NewContractDoc builds the documentation model of a single contract.
func NewContractDoc(name string, c *artifact.Contract) (ContractDoc, error) {
	if c.ABI == nil {
		return ContractDoc{}, fmt.Errorf("%w: %s", artifact.ErrMissingABI, name)
	}
	dev, user := &c.DevDoc, &c.UserDoc

	errs, err := buildErrors(*c.ABI, dev, user)
	if err != nil {
		return ContractDoc{}, fmt.Errorf("contract %s: %w", name, err)
	}

	return ContractDoc{
		Name:    name,
		Title:   dev.Title,
		Details: dev.Details,
		Notice:  user.Notice,
		Author:  dev.Author,
		Methods: buildMethods(*c.ABI, dev, user),
		Events:  buildEvents(*c.ABI, dev, user),
		Errors:  errs,
	}, nil
}
