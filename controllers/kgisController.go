package controllers

import (
	"geogateway-backend/kgis"
	"geogateway-backend/middlewares"

	"github.com/gofiber/fiber/v2"
)

// KGISController exposes the administrative hierarchy lookups. These
// endpoints return the provider-shaped payload directly rather than the
// Bhuvan envelope.
type KGISController struct {
	Client *kgis.Client
}

func (ct *KGISController) Test(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "kgis api endpoint is working"})
}

func (ct *KGISController) AdminHierarchy(c *fiber.Ctx) error {
	var req kgis.AdminHierarchyRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.AdminHierarchy(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) DistrictName(c *fiber.Ctx) error {
	var req kgis.DistrictNameRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.DistrictName(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) LocationDetails(c *fiber.Ctx) error {
	var req kgis.LocationDetailsRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.LocationDetails(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) HobliCode(c *fiber.Ctx) error {
	var req kgis.HobliCodeRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.HobliCode(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) TalukCode(c *fiber.Ctx) error {
	var req kgis.TalukCodeRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.TalukCode(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) PinCodeDistance(c *fiber.Ctx) error {
	var req kgis.PinCodeDistanceRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.PinCodeDistance(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) NearbyHierarchy(c *fiber.Ctx) error {
	var req kgis.NearbyHierarchyRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ct.Client.NearbyHierarchy(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(out)
}

func (ct *KGISController) SurveyPolygon(c *fiber.Ctx) error {
	var req kgis.GeometricPolygonRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	// Survey polygon lookup never fails: provider trouble yields an empty
	// polygon list.
	return c.JSON(ct.Client.GeomForSurveyNumber(req))
}
