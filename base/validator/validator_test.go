package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func (s *ValidatorTestSuite) SetupTest() {
}

func (s *ValidatorTestSuite) TearDownTest() {
}

func (s *ValidatorTestSuite) SetupSuite() {
}

func (s *ValidatorTestSuite) TearDownSuite() {
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "invalid address",
			address:    "0:123",
			expIsValid: false,
		},
		{
			desc:       "valid address - raw form",
			address:    "0:0000000000000000000000000000000000000000000000000000000000000000",
			expIsValid: true,
		},
		{
			desc:       "valid address - masterchain",
			address:    "-1:3333333333333333333333333333333333333333333333333333333333333333",
			expIsValid: true,
		},
		{
			desc:       "invalid address - bad hex",
			address:    "0:zz00000000000000000000000000000000000000000000000000000000000000",
			expIsValid: false,
		},
		{
			desc:       "invalid address - empty",
			address:    "",
			expIsValid: false,
		},
	}
	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}
