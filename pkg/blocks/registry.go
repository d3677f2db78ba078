package blocks

import (
	"github.com/matzehuels/storeblocks/pkg/registry"
	"github.com/matzehuels/storeblocks/pkg/render"
)

// Kind pairs a canonical typename with its renderer and legacy aliases.
type Kind struct {
	Typename string
	Aliases  []string
	Renderer render.Renderer
}

// Kinds returns every block kind this package renders.
func Kinds() []Kind {
	return []Kind{
		{Typename: "GLTextBlock", Renderer: textRenderer},
		{Typename: "GLEditorBlock", Renderer: editorRenderer},
		{Typename: "GLEmptyBlock", Renderer: emptyRenderer},
		{Typename: "GLColumnBannerBlock", Renderer: columnBannerRenderer},
		{Typename: "GLFeaturedProductsBannerBlock", Renderer: featuredProductsRenderer},
		{Typename: "GLMonoBannerBlock", Aliases: []string{"GLMonoBanner"}, Renderer: monoBannerRenderer},
		{Typename: "GLHeroBannerBlock", Aliases: []string{"GLHeroBanner"}, Renderer: heroBannerRenderer},
		{Typename: "GLGridBannerBlock", Aliases: []string{"GLGridBanner"}, Renderer: gridBannerRenderer},
		{Typename: "GLFullWidthBannerBlock", Renderer: fullWidthBannerRenderer},
		{Typename: "GLCategoryBlockBannerBlock", Renderer: categoryBlockBannerRenderer},
		{Typename: "GLBrandBannerBlock", Renderer: brandBannerRenderer},
		{Typename: "GLBrandListBlock", Renderer: brandListRenderer},
		{Typename: "GLCarouselBannerBlock", Renderer: carouselRenderer},
		{Typename: "GLTestimonialsBlock", Renderer: testimonialsRenderer},
		{Typename: "GLCategoryListingBlock", Renderer: categoryListingRenderer},
		{Typename: "GLProductCategoryBlock", Renderer: productCategoryRenderer},
		{Typename: "GLProductListingBlock", Renderer: productListingRenderer},
		{Typename: "GLLinkListingBlock", Renderer: linkListingRenderer},
		{Typename: "GLContactFormBlock", Renderer: contactFormRenderer},
		{Typename: "GLRequestQuoteFormBlock", Aliases: []string{"GLRequestQuoteBlock"}, Renderer: requestQuoteRenderer},
		{Typename: "GLCustomerRegistrationBlock", Renderer: customerRegistrationRenderer},
	}
}

// Register adds every block kind and its aliases to reg.
func Register(reg *registry.Registry) error {
	for _, k := range Kinds() {
		for _, name := range append([]string{k.Typename}, k.Aliases...) {
			if err := reg.Register(name, k.Renderer); err != nil {
				return err
			}
		}
	}
	return nil
}

// NewRegistry returns a sealed registry holding every block kind.
func NewRegistry() (*registry.Registry, error) {
	reg := registry.New()
	if err := Register(reg); err != nil {
		return nil, err
	}
	reg.Seal()
	return reg, nil
}
