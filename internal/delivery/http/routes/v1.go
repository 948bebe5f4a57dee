package routes

import (
	"github.com/gofiber/fiber/v3"

	v1 "swadesh-intern/internal/delivery/http/routes/v1"
)

func RegisterV1(r fiber.Router, d v1.Deps) {
	if r == nil {
		return
	}

	v1.Register(r, d)
}
