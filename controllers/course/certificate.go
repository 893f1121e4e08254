package courseController

import (
	"github.com/gofiber/fiber/v2"

	"verve/apierr"
	"verve/middleware"
	courseService "verve/services/course"
)

var errCertificateMissing = apierr.NotFound("Certificate not found.")

// GetUserCertificates lists the caller's certificates, newest first.
func (h *Handler) GetUserCertificates(c *fiber.Ctx) error {
	certs, err := h.svc.Certificates.ListForUser(c.UserContext(), middleware.CurrentViewer(c).ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully.", certs)
}

func (h *Handler) GetCertificate(c *fiber.Ctx) error {
	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if apierr.Is(err, apierr.KindNotFound) {
			return middleware.ErrorResponse(c, errCertificateMissing)
		}
		return middleware.ErrorResponse(c, err)
	}

	cert, err := h.svc.Certificates.Get(c.UserContext(), middleware.CurrentViewer(c).ID, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully.", cert)
}

// DownloadCertificate flags the certificate as downloaded.
func (h *Handler) DownloadCertificate(c *fiber.Ctx) error {
	course, err := h.svc.Resolver.Resolve(c.UserContext(), c.Params("courseId"))
	if err != nil {
		if apierr.Is(err, apierr.KindNotFound) {
			return middleware.ErrorResponse(c, errCertificateMissing)
		}
		return middleware.ErrorResponse(c, err)
	}

	cert, err := h.svc.Certificates.MarkDownloaded(c.UserContext(), middleware.CurrentViewer(c).ID, course.ID)
	if err != nil {
		if err == courseService.ErrCertificateNotFound {
			return middleware.ErrorResponse(c, errCertificateMissing)
		}
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate downloaded successfully!", cert)
}
