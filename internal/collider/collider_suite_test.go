package collider_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCollider(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collider Suite")
}
