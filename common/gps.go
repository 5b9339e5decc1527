package common

// GPSPrecision4 is four decimal places of a degree, about 11m at the equator.
const GPSPrecision4 = 4
