package ledger

import (
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	yaml "gopkg.in/yaml.v2"

	"github.com/mutuoclub/mutuo/types"
)

type suiteDistributionTester struct {
	suite.Suite
}

type SystemShareEntry struct {
	Name               string `yaml:"name"`
	Amount             string `yaml:"amount"`
	TaxReserve         string `yaml:"tax_reserve"`
	OperationalReserve string `yaml:"operational_reserve"`
	OwnerReserve       string `yaml:"owner_reserve"`
	InvestmentReserve  string `yaml:"investment_reserve"`
	CorporateReserve   string `yaml:"corporate_reserve"`
}

func (e *SystemShareEntry) Test(s *suiteDistributionTester) {
	s.T().Run(e.Name, func(t *testing.T) {
		amount, _ := decimal.NewFromString(e.Amount)
		split := SplitSystemShare(amount)

		expected := map[types.ReserveBucket]string{
			types.BucketTaxReserve:        e.TaxReserve,
			types.BucketOperationalRes:    e.OperationalReserve,
			types.BucketOwnerReserve:      e.OwnerReserve,
			types.BucketInvestmentReserve: e.InvestmentReserve,
			types.BucketCorporateReserve:  e.CorporateReserve,
		}

		for bucket, raw := range expected {
			want, _ := decimal.NewFromString(raw)
			s.True(split[bucket].Equal(want), "%s: bucket %s got %s want %s", e.Name, bucket, split[bucket], want)
		}

		s.True(split.Total().Equal(amount))
	})
}

func (s *suiteDistributionTester) TestSystemShareFixtures() {
	fixtureFile, err := ioutil.ReadFile("./fixtures/distribution.yaml")

	s.NoError(err)

	var entries []SystemShareEntry
	err = yaml.Unmarshal(fixtureFile, &entries)
	if err != nil {
		panic(err)
	}

	for _, entry := range entries {
		entry.Test(s)
	}
}

func (s *suiteDistributionTester) TestSystemShareLossless() {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		amount := decimal.NewFromInt(rnd.Int63n(10_000_000)).Div(decimal.NewFromInt(100))
		split := SplitSystemShare(amount)

		s.True(split.Total().Equal(amount), "amount %s leaked through the split", amount)
		s.Len(split, 5)
	}
}

func (s *suiteDistributionTester) TestLoanInterestRatios() {
	split := SplitLoanInterest(decimal.NewFromInt(100))

	s.True(split[types.BucketProfitPool].Equal(decimal.NewFromInt(80)))
	s.True(split[types.BucketTaxReserve].Equal(decimal.NewFromInt(4)))
	s.True(split.Total().Equal(decimal.NewFromInt(100)))
}

func (s *suiteDistributionTester) TestLoanInterestLossless() {
	rnd := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		amount := decimal.NewFromInt(rnd.Int63n(1_000_000)).Div(decimal.NewFromInt(100))

		s.True(SplitLoanInterest(amount).Total().Equal(amount))
	}
}

func (s *suiteDistributionTester) TestPenaltyRatios() {
	split := SplitPenalty(decimal.NewFromInt(100))

	s.True(split[types.BucketProfitPool].Equal(decimal.NewFromInt(20)))
	s.True(split[types.BucketOwnerReserve].Equal(decimal.NewFromInt(16)))
	s.True(split.Total().Equal(decimal.NewFromInt(100)))
}

func (s *suiteDistributionTester) TestPenaltyLossless() {
	rnd := rand.New(rand.NewSource(13))

	for i := 0; i < 1000; i++ {
		amount := decimal.NewFromInt(rnd.Int63n(1_000_000)).Div(decimal.NewFromInt(100))

		s.True(SplitPenalty(amount).Total().Equal(amount))
	}
}

func (s *suiteDistributionTester) TestMergeAddsOverlappingBuckets() {
	a := Split{types.BucketProfitPool: decimal.NewFromInt(10)}
	b := Split{
		types.BucketProfitPool: decimal.NewFromInt(5),
		types.BucketTaxReserve: decimal.NewFromInt(3),
	}

	merged := a.Merge(b)

	s.True(merged[types.BucketProfitPool].Equal(decimal.NewFromInt(15)))
	s.True(merged[types.BucketTaxReserve].Equal(decimal.NewFromInt(3)))
	s.True(merged.Total().Equal(decimal.NewFromInt(18)))
}

func TestDistributionSuite(t *testing.T) {
	suite.Run(t, new(suiteDistributionTester))
}
