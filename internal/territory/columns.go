package territory

import "github.com/procolombia/territory-profile/internal/frame"

// Shared columns.
const (
	ColCode      = "Cod. Municipio"
	ColRegion    = "Departamento"
	ColTerritory = "Municipio"
)

// Indicators columns.
const (
	ColPopulation    = "Población municipio"
	ColWomen         = "% mujeres municipio"
	ColYouth         = "% jóvenes municipio"
	ColEthnic        = "% grupos étnicos municipio"
	ColDisability    = "% discapacidad municipio"
	ColPoverty       = "% pobreza municipio"
	ColInformality   = "% informalidad municipio"
	ColPrimary       = "% Act. primarias municipio"
	ColSecondary     = "% Act. secundarias municipio"
	ColTertiary      = "% Act. terciarias municipio"
	ColValueAdded    = "Valor agregado municipio"
	ColEduSecondary  = "% pobl. con educación media municipio"
	ColEduTechnical  = "% pobl. con edu. técnica/tecnología municipio"
	ColEduUndergrad  = "% pobl. con pregrado municipio"
	ColEduPostgrad   = "% pobl. con posgrado municipio"
	ColPDETSubregion = "Subregión PDET"
	ColZOMAC         = "ZOMAC"
)

// Business-fabric columns.
const (
	ColRegionCode    = "Cod. Depto"
	ColCIIU          = "CIIU Rev 4 principal"
	ColCIIUDesc      = "Descripción CIIU principal"
	ColSize          = "Tamaño"
	ColChain         = "Cadena productiva"
	ColValueBracket  = "Valor agregado empresa"
	ColExportType    = "Tipo* ult 10 años"
	ColExportChain   = "Cadena* ult 10 años"
	ColForeignBranch = "Sucursal sociedad extranjera"
	ColBusinessCount = "Número de empresas"
)

// Location columns, before and after projection.
const (
	colLocCode      = "Código .1"
	colLocRegion    = "Nombre"
	colLocTerritory = "Nombre.1"
	ColLatitude     = "LATITUD"
	ColLongitude    = "LONGITUD"
)

// Sentinel category values found in the fabric table.
const (
	NotExported  = "No exportó ult. 10 años"
	BranchYes    = "Si"
	ChainTourism = "Turismo"
)

// IndicatorTypes declares the coercions applied to the indicators table.
var IndicatorTypes = frame.Types{
	ColCode:          frame.KindString,
	ColPopulation:    frame.KindFloat,
	ColWomen:         frame.KindFloat,
	ColYouth:         frame.KindFloat,
	ColEthnic:        frame.KindFloat,
	ColDisability:    frame.KindFloat,
	ColPoverty:       frame.KindFloat,
	ColInformality:   frame.KindFloat,
	ColPrimary:       frame.KindFloat,
	ColSecondary:     frame.KindFloat,
	ColTertiary:      frame.KindFloat,
	ColValueAdded:    frame.KindFloat,
	ColEduSecondary:  frame.KindFloat,
	ColEduTechnical:  frame.KindFloat,
	ColEduUndergrad:  frame.KindFloat,
	ColEduPostgrad:   frame.KindFloat,
	ColPDETSubregion: frame.KindString,
	ColZOMAC:         frame.KindInt,
}

// FabricTypes declares the coercions applied to the business-fabric table.
var FabricTypes = frame.Types{
	ColRegionCode:    frame.KindString,
	ColCode:          frame.KindString,
	ColCIIU:          frame.KindString,
	ColRegion:        frame.KindString,
	ColTerritory:     frame.KindString,
	ColBusinessCount: frame.KindFloat,
}

// LocationTypes declares the coercions applied to the location table.
var LocationTypes = frame.Types{
	colLocCode:   frame.KindString,
	ColLatitude:  frame.KindFloat,
	ColLongitude: frame.KindFloat,
}
